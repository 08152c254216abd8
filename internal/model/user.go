package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-retail-store/internal/access"
)

// User is a row of usuarios, a login account belonging to one group.
type User struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Login        string     `gorm:"column:login;type:varchar(50);uniqueIndex;not null" json:"login" validate:"required,max=50"`
	Name         string     `gorm:"column:nome;type:varchar(100)" json:"name" validate:"required,max=100"`
	Password     string     `gorm:"column:senha;type:varchar(255);not null" json:"-"` // Hidden from JSON
	GroupID      uint       `gorm:"column:grupo_id;not null;index" json:"group_id"`
	Group        *Group     `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"group,omitempty"`
	IsActive     bool       `gorm:"column:ativo;default:true" json:"is_active"`
	TokenVersion string     `gorm:"column:token_version;type:varchar(64);default:''" json:"-"` // For single session enforcement
	LastSeenAt   *time.Time `gorm:"column:ultimo_acesso" json:"last_seen_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:data_cadastro;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "usuarios"
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Role is the access role of the user's group. Users loaded without their
// group have no role.
func (u *User) Role() access.Role {
	if u.Group == nil {
		return ""
	}
	return u.Group.Role()
}

// Actor returns the user as the caller of service operations.
func (u *User) Actor() access.Actor {
	return access.Actor{UserID: u.ID, Name: u.Name, Role: u.Role()}
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uint        `json:"id"`
	Login      string      `json:"login"`
	Name       string      `json:"name"`
	Role       access.Role `json:"role"`
	IsActive   bool        `json:"is_active"`
	LastSeenAt *time.Time  `json:"last_seen_at,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Login:      u.Login,
		Name:       u.Name,
		Role:       u.Role(),
		IsActive:   u.IsActive,
		LastSeenAt: u.LastSeenAt,
	}
}
