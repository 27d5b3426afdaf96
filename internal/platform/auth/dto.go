package auth

type LoginRequest struct {
	Username string `json:"username" binding:"notblank"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Usuario UserResponse `json:"usuario"`
	Token   string       `json:"token"`
}

type UserResponse struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
	Activo   bool   `json:"activo"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"notblank,max=255"`
	Password string `json:"password" binding:"required,min=6"`
	Rol      string `json:"rol" binding:"required,oneof=Administrador Usuario Visor"`
	Activo   *bool  `json:"activo"`
}

// UpdateUserRequest keeps the stored password when Password is omitted.
type UpdateUserRequest struct {
	Username string  `json:"username" binding:"notblank,max=255"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Rol      string  `json:"rol" binding:"required,oneof=Administrador Usuario Visor"`
	Activo   *bool   `json:"activo"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Rol: u.Role, Activo: u.Active}
}
