package dto

// ErrorResponse cuerpo de error HTTP. OK siempre es false.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusResponse respuesta de los endpoints de diagnóstico.
type StatusResponse struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg"`
}
