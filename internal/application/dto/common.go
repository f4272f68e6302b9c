package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// UnavailableResponse 409 de un pedido rechazado por falta de stock, con el detalle por producto.
type UnavailableResponse struct {
	Code         string               `json:"code"`
	Message      string               `json:"message"`
	Availability AvailabilityResponse `json:"availability"`
}
