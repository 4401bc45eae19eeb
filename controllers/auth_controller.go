package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/freightflowhq/freightflowbackend/database"
	"github.com/freightflowhq/freightflowbackend/dto"
	"github.com/freightflowhq/freightflowbackend/models"
	"github.com/freightflowhq/freightflowbackend/utils"
)

func setRefreshCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "refreshToken",
		Value:    token,
		Path:     "/auth",
		MaxAge:   int(utils.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode, // SPA and API live on different origins
	})
}

func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"email": body.Email}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate refresh token"})
			return
		}

		now := time.Now().UTC()
		refreshCol := database.OpenCollection("refresh_tokens")
		if _, err := refreshCol.InsertOne(ctx, models.RefreshToken{
			UserID:    user.ID,
			TokenHash: utils.HashToken(refreshToken),
			ExpiresAt: now.Add(utils.RefreshTTL()),
			CreatedAt: now,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store refresh token"})
			return
		}

		setRefreshCookie(c, refreshToken)
		c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
	}
}

func Refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")
		refreshCol := database.OpenCollection("refresh_tokens")

		raw, err := c.Cookie("refreshToken")
		if err != nil || raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
			return
		}

		var rt models.RefreshToken
		err = refreshCol.FindOne(ctx, bson.M{
			"tokenHash": utils.HashToken(raw),
			"revokedAt": bson.M{"$exists": false},
			"expiresAt": bson.M{"$gt": time.Now().UTC()},
		}).Decode(&rt)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"_id": rt.UserID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		// Rotate: revoke the presented token, issue a replacement.
		newToken, err := utils.GenerateRefreshToken(user.ID.Hex())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
			return
		}
		newHash := utils.HashToken(newToken)

		now := time.Now().UTC()
		if _, err := refreshCol.UpdateByID(ctx, rt.ID, bson.M{
			"$set": bson.M{"revokedAt": now, "replacedBy": newHash},
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke refresh token"})
			return
		}
		if _, err := refreshCol.InsertOne(ctx, models.RefreshToken{
			UserID:    user.ID,
			TokenHash: newHash,
			ExpiresAt: now.Add(utils.RefreshTTL()),
			CreatedAt: now,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store refresh token"})
			return
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
			return
		}

		setRefreshCookie(c, newToken)
		c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		refreshCol := database.OpenCollection("refresh_tokens")

		raw, _ := c.Cookie("refreshToken")
		utils.ClearRefreshCookie(c)

		// best effort revoke
		if raw != "" {
			_, _ = refreshCol.UpdateOne(ctx, bson.M{
				"tokenHash": utils.HashToken(raw),
				"revokedAt": bson.M{"$exists": false},
			}, bson.M{
				"$set": bson.M{"revokedAt": time.Now().UTC()},
			})
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func RevokeAllRefreshTokens(c *gin.Context, userID bson.ObjectID) error {
	refreshCol := database.OpenCollection("refresh_tokens")
	_, err := refreshCol.UpdateMany(c.Request.Context(), bson.M{
		"userId":    userID,
		"revokedAt": bson.M{"$exists": false},
	}, bson.M{
		"$set": bson.M{"revokedAt": time.Now().UTC()},
	})
	return err
}
