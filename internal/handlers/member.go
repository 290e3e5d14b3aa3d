package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bizops-api/internal/dto"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/services"
)

// MemberHandler lists dashboard users and manages their roles.
type MemberHandler struct {
	memberService *services.MemberService
}

func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func (h *MemberHandler) ListMembers(c *gin.Context) {
	users, err := h.memberService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": dto.ToUserDTOs(users)})
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type UpdateRoleRequest struct {
		Role models.UserRole `json:"role" binding:"required"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.memberService.UpdateRole(id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrLastAdmin):
			apierrors.Conflict(c, err.Error())
		default:
			respondError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
