package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
	"github.com/yukikurage/bizops-api/internal/testutil"
)

func TestMemberService_UpdateRole(t *testing.T) {
	db := testutil.OpenDB(t)
	userRepo := repository.NewUserRepository(db)
	auth := NewAuthService(userRepo)
	members := NewMemberService(userRepo)

	admin, err := auth.Signup(SignupInput{Username: "owner", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, admin.Role)

	member, err := auth.Signup(SignupInput{Username: "staff", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, member.Role)

	_, err = members.UpdateRole(admin.ID, models.RoleMember)
	require.ErrorIs(t, err, ErrLastAdmin)

	_, err = members.UpdateRole(member.ID, "owner")
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = members.UpdateRole(999, models.RoleAdmin)
	require.ErrorIs(t, err, ErrUserNotFound)

	promoted, err := members.UpdateRole(member.ID, models.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, promoted.Role)

	// with a second admin the first one may step down
	demoted, err := members.UpdateRole(admin.ID, models.RoleMember)
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, demoted.Role)

	users, err := members.List()
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "owner", users[0].Username)
}
