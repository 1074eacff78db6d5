package utils

import "github.com/gin-gonic/gin"

// Error bodies match the shape the platform's other services emit.
const (
	MsgNotAuthenticated = "Not authenticated"
	MsgPredictionFailed = "Ooops! Something went wrong during prediction."
	MsgInternalError    = "Internal server error"
)

// DetailResponse is the uniform error body: {"detail": "..."}.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// Detail writes an error response with the given status code.
func Detail(ctx *gin.Context, status int, detail string) {
	ctx.JSON(status, DetailResponse{Detail: detail})
}
