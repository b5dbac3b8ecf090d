package http

import "github.com/gin-gonic/gin"

// Register splits routes between the public group and the token-protected one.
func (h *Handler) Register(public, protected *gin.RouterGroup) {
	public.POST("/signup", h.SignUp)
	public.POST("/signin", h.SignIn)

	protected.POST("/signout", h.SignOut)
	protected.GET("/me", h.Me)
	protected.PUT("/profile", h.UpdateProfile)
	protected.PUT("/password", h.ChangePassword)
	protected.DELETE("/account", h.DeleteAccount)
}
