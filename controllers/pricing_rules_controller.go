package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/freightflowhq/freightflowbackend/cache"
	"github.com/freightflowhq/freightflowbackend/database"
	"github.com/freightflowhq/freightflowbackend/dto"
	"github.com/freightflowhq/freightflowbackend/models"
	"github.com/freightflowhq/freightflowbackend/utils"
)

// ====== CreatePricingRule (staff) ============================================================================
// POST /quotations/pricing-rules
func CreatePricingRule(rc *cache.RulesCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.CreatePricingRuleDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if problems := body.Validate(); len(problems) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": strings.Join(problems, ", ")})
			return
		}

		isActive := true
		if body.IsActive != nil {
			isActive = *body.IsActive
		}

		now := time.Now().UTC()
		rule := models.PricingRule{
			ID:          bson.NewObjectID(),
			Name:        strings.TrimSpace(body.Name),
			Slug:        utils.GenerateSlug(body.Name),
			Description: strings.TrimSpace(body.Description),
			ServiceType: models.ServiceType(body.ServiceType),
			RuleType:    models.RuleType(body.RuleType),
			Conditions:  body.ConditionsModel(),
			Calculation: models.RuleCalculation{
				Type:     models.CalculationType(body.Calculation.Type),
				Value:    body.Calculation.Value,
				Currency: strings.ToUpper(strings.TrimSpace(body.Calculation.Currency)),
			},
			Priority:   body.Priority,
			IsActive:   isActive,
			ValidFrom:  body.ValidFrom,
			ValidUntil: body.ValidUntil,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		col := database.OpenCollection("pricing_rules")
		if _, err := col.InsertOne(ctx, rule); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		rc.Invalidate(ctx)
		c.JSON(http.StatusCreated, rule)
	}
}

// ====== GetPricingRules (staff) ==============================================================================
// GET /quotations/pricing-rules?serviceType=&isActive=&page=&limit=
//
// serviceType=ocean also returns rules scoped "all"; that is the same set
// the evaluator loads.
func GetPricingRules() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("pricing_rules")

		maxLimit, defaultLimit := utils.GetDefaultQueryLimits()

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > maxLimit {
			limit = defaultLimit
		}

		filter := bson.M{}
		if st := strings.TrimSpace(c.Query("serviceType")); st != "" {
			filter["serviceType"] = bson.M{"$in": []string{st, string(models.ServiceTypeAll)}}
		}
		isActive, err := utils.ParseBoolQuery(c.Query("isActive"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "isActive must be true or false"})
			return
		}
		if isActive != nil {
			filter["isActive"] = *isActive
		}

		opts := options.Find().
			SetSkip(int64((page - 1) * limit)).
			SetLimit(int64(limit)).
			SetSort(bson.D{
				{Key: "priority", Value: -1},
				{Key: "createdAt", Value: -1},
			})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		rules := make([]models.PricingRule, 0)
		if err := cursor.All(ctx, &rules); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		total, err := col.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"rules": rules,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

// ====== GetPricingRule (staff) ===============================================================================
// GET /quotations/pricing-rules/:id
func GetPricingRule() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("pricing_rules")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pricing rule id"})
			return
		}

		var rule models.PricingRule
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&rule); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "pricing rule not found"})
			return
		}

		c.JSON(http.StatusOK, rule)
	}
}

// ====== UpdatePricingRule (staff) ============================================================================
// PUT /quotations/pricing-rules/:id
//
// Full replace of the mutable fields. Slug follows the name.
func UpdatePricingRule(rc *cache.RulesCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("pricing_rules")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pricing rule id"})
			return
		}

		var body dto.CreatePricingRuleDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if problems := body.Validate(); len(problems) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": strings.Join(problems, ", ")})
			return
		}

		isActive := true
		if body.IsActive != nil {
			isActive = *body.IsActive
		}

		set := bson.M{
			"name":        strings.TrimSpace(body.Name),
			"slug":        utils.GenerateSlug(body.Name),
			"description": strings.TrimSpace(body.Description),
			"serviceType": models.ServiceType(body.ServiceType),
			"ruleType":    models.RuleType(body.RuleType),
			"conditions":  body.ConditionsModel(),
			"calculation": models.RuleCalculation{
				Type:     models.CalculationType(body.Calculation.Type),
				Value:    body.Calculation.Value,
				Currency: strings.ToUpper(strings.TrimSpace(body.Calculation.Currency)),
			},
			"priority":   body.Priority,
			"isActive":   isActive,
			"validFrom":  body.ValidFrom,
			"validUntil": body.ValidUntil,
			"updatedAt":  time.Now().UTC(),
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "pricing rule not found"})
			return
		}

		rc.Invalidate(ctx)

		var updated models.PricingRule
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ====== DeletePricingRule (staff) ============================================================================
// DELETE /quotations/pricing-rules/:id
func DeletePricingRule(rc *cache.RulesCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("pricing_rules")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pricing rule id"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "pricing rule not found"})
			return
		}

		rc.Invalidate(ctx)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
