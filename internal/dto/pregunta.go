package dto

type PreguntaRequest struct {
	Pregunta string `json:"pregunta"`
}

type PreguntaResponse struct {
	Respuesta string `json:"respuesta"`
}
