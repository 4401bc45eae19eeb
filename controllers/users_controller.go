package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/freightflowhq/freightflowbackend/database"
	"github.com/freightflowhq/freightflowbackend/dto"
	"github.com/freightflowhq/freightflowbackend/models"
	"github.com/freightflowhq/freightflowbackend/utils"
)

// POST /quotations/users
func CreateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		role := models.Role(body.Role)
		if role == "" {
			role = models.RoleAgent
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		user := models.User{
			ID:           bson.NewObjectID(),
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		usersCol := database.OpenCollection("users")
		if _, err := usersCol.InsertOne(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

// POST /quotations/users/me/password
func ChangeMyPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userIDStr, ok := c.Get("userID")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}
		userID, err := bson.ObjectIDFromHex(userIDStr.(string))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid auth context"})
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}
		if err := utils.CheckPassword(user.PasswordHash, body.CurrentPassword); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		if _, err := usersCol.UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"passwordHash": newHash,
				"updatedAt":    time.Now().UTC(),
			},
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Force re-login everywhere after a password change.
		_ = RevokeAllRefreshTokens(c, userID)
		utils.ClearRefreshCookie(c)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
