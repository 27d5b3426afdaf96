package assettypes

type CreateTypeRequest struct {
	Nombre       string  `json:"nombre" binding:"notblank,max=255"`
	Codificacion *string `json:"codificacion" binding:"omitempty,max=20"`
}

type UpdateTypeRequest struct {
	Nombre       string  `json:"nombre" binding:"notblank,max=255"`
	Codificacion *string `json:"codificacion" binding:"omitempty,max=20"`
}

type NextCodeResponse struct {
	Codigo string `json:"codigo"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
