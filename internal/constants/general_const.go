// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to routing
// and request parameters. These constants ensure consistent API patterns and URL
// structure throughout the application, making the API more predictable and easier
// to maintain.
package constants

// URL Parameters define path parameter names used in route definitions.
// These constants are used when defining routes with path parameters and
// when extracting those parameters from requests.
const (
	// ParamGoalID is the URL parameter for goal identifiers.
	ParamGoalID = "goalID"

	// ParamRecordKey is the URL parameter for key-value record keys.
	ParamRecordKey = "recordKey"

	// ParamSessionID is the URL parameter for session identifiers.
	ParamSessionID = "sessionID"

	// ParamID is the URL parameter for generic resource identifiers.
	ParamID = "id"
)

// Query Parameters define common query string parameter names.
// These constants ensure consistent parameter naming in query strings
// across different API endpoints.
const (
	// QueryParamUsername is the query parameter for filtering by username.
	QueryParamUsername = "username"

	// QueryParamEmail is the query parameter for filtering by email.
	QueryParamEmail = "email"

	// QueryParamAt is the query parameter carrying an evaluation instant in
	// Unix-epoch milliseconds. Endpoints that compute countdown state accept
	// it so clients can ask about past or future instants.
	QueryParamAt = "at"
)
