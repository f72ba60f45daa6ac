package packets

type InstallRequest struct {
	Shop string `json:"shop" binding:"required,hostname"`
}

type TokenRequest struct {
	Shop   string `json:"shop" binding:"required,hostname"`
	Secret string `json:"secret" binding:"required"`
}
