package domain

// ValidationError reports a client-correctable input failure. Registration
// surfaces the specific message of the first gate that rejected the input;
// login never produces one of these (it uses ErrMalformedLogin instead).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
