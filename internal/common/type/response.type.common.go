package types

// Response is the internal response envelope passed from services to the
// response middleware.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   error  `json:"-"`
}

// ResponseAPI is the wire representation written to clients.
type ResponseAPI struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r *Response) ToAPI() *ResponseAPI {
	api := &ResponseAPI{
		Code:    r.Code,
		Message: r.Message,
		Data:    r.Data,
	}
	if r.Error != nil {
		api.Error = r.Error.Error()
	}
	return api
}
