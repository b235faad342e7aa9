package consts

const (
	ParamAPIKey    = "api_key"
	ParamStartDate = "start_date"
	ParamEndDate   = "end_date"
	ParamDate      = "date"
	ParamCount     = "count"
	ParamThumbs    = "thumbs"
	ParamDays      = "days"

	TimeFormat = "2006-01-02"
	FirstDate  = "1995-06-16"

	// DemoKey is the shared credential api.nasa.gov hands out without signup.
	DemoKey = "DEMO_KEY"
	BaseURL = "https://api.nasa.gov/planetary/apod"

	KeySignupURL = "https://api.nasa.gov/"

	HeaderRequestID = "X-Request-Id"

	True = "true"
)
