package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/freightflowhq/freightflowbackend/cache"
	"github.com/freightflowhq/freightflowbackend/database"
	"github.com/freightflowhq/freightflowbackend/dto"
	"github.com/freightflowhq/freightflowbackend/metrics"
	"github.com/freightflowhq/freightflowbackend/models"
	"github.com/freightflowhq/freightflowbackend/pricing"
)

// loadActiveRules returns the active rule set for a service type, already
// sorted the way the evaluator expects. Cache first, Mongo on miss.
func loadActiveRules(c *gin.Context, rc *cache.RulesCache, serviceType models.ServiceType) ([]models.PricingRule, error) {
	ctx := c.Request.Context()

	if rules, ok := rc.Get(ctx, serviceType); ok {
		return rules, nil
	}

	col := database.OpenCollection("pricing_rules")
	opts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: -1},
		{Key: "createdAt", Value: -1},
	})
	cursor, err := col.Find(ctx, bson.M{
		"isActive":    true,
		"serviceType": bson.M{"$in": []string{string(serviceType), string(models.ServiceTypeAll)}},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rules := make([]models.PricingRule, 0)
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}

	rc.Set(ctx, serviceType, rules)
	return rules, nil
}

// ====== CalculatePrice (public) ==============================================================================
// POST /quotations/calculate
//
// Stateless estimate; nothing is persisted.
func CalculatePrice(rc *cache.RulesCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CalculatePriceDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if problems := body.Validate(); len(problems) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": strings.Join(problems, ", ")})
			return
		}

		serviceType := models.ServiceType(body.ServiceType)
		rules, err := loadActiveRules(c, rc, serviceType)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		quote := pricing.CalculatePrice(rules, pricing.Input{
			ServiceType:  serviceType,
			Weight:       body.Weight,
			Volume:       body.Volume,
			Origin:       body.Origin,
			Destination:  body.Destination,
			Commodity:    body.Commodity,
			CustomerType: body.CustomerType,
		})

		metrics.PriceCalculations.WithLabelValues(string(serviceType)).Inc()
		c.JSON(http.StatusOK, quote)
	}
}

// ====== GetAnalytics (staff) =================================================================================
// GET /quotations/analytics
func GetAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quote_requests")

		byStatus, err := countBy(c, "status")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		byService, err := countBy(c, "serviceType")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Price stats only over requests that actually carry a quoted price.
		priceCursor, err := col.Aggregate(ctx, bson.A{
			bson.M{"$match": bson.M{"quotedPrice": bson.M{"$ne": nil}}},
			bson.M{"$group": bson.M{
				"_id": nil,
				"avg": bson.M{"$avg": "$quotedPrice"},
				"min": bson.M{"$min": "$quotedPrice"},
				"max": bson.M{"$max": "$quotedPrice"},
			}},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer priceCursor.Close(ctx)

		prices := gin.H{"avg": 0.0, "min": 0.0, "max": 0.0}
		var priceRows []struct {
			Avg float64 `bson:"avg"`
			Min float64 `bson:"min"`
			Max float64 `bson:"max"`
		}
		if err := priceCursor.All(ctx, &priceRows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(priceRows) > 0 {
			prices = gin.H{"avg": priceRows[0].Avg, "min": priceRows[0].Min, "max": priceRows[0].Max}
		}

		c.JSON(http.StatusOK, gin.H{
			"byStatus":      byStatus,
			"byServiceType": byService,
			"quotedPrices":  prices,
		})
	}
}

func countBy(c *gin.Context, field string) (map[string]int64, error) {
	ctx := c.Request.Context()
	col := database.OpenCollection("quote_requests")

	cursor, err := col.Aggregate(ctx, bson.A{
		bson.M{"$group": bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}
