package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the access token payload issued by the ERP auth service.
type JWTClaims struct {
	UserID    int64  `json:"userId"`
	Role      string `json:"role"`
	ServiceID *int64 `json:"serviceId,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts validated claims into the request actor.
func (c *JWTClaims) Actor() *Actor {
	actor := &Actor{ID: c.UserID, Role: ParseRole(c.Role)}
	if c.ServiceID != nil {
		service := *c.ServiceID
		actor.ServiceID = &service
	}
	return actor
}
