package server

// Payload is the body of every api response.
// ID is only set for tagged error responses.
type Payload struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

var (
	PayloadSuccess         = Payload{Message: "This is a successful response!"}
	PayloadValidRequest    = Payload{Message: "This request has the required parameters"}
	PayloadBadRequest      = Payload{Message: "Missing valid query parameter set to true", ID: "badRequest"}
	PayloadLoggedIn        = Payload{Message: "You have successfully viewed the content."}
	PayloadUnauthorized    = Payload{Message: "Missing loggedIn query parameter set to yes", ID: "unauthorized"}
	PayloadForbidden       = Payload{Message: "You do not have access to this content.", ID: "forbidden"}
	PayloadInternal        = Payload{Message: "Internal server error. Something went wrong.", ID: "internal"}
	PayloadNotImplemented  = Payload{Message: "A GET request for this page has not been implemented yet.", ID: "notImplemented"}
	PayloadNotFound        = Payload{Message: "The page you are looking for was not found.", ID: "notFound"}
	PayloadTooManyRequests = Payload{Message: "Too many requests, please try again later.", ID: "tooManyRequests"}

	// PayloadFileError is reported when a client file can't be read.
	PayloadFileError = Payload{Message: "Internal Server Error", ID: "internal"}
)
