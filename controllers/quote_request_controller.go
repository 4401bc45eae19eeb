package controllers

import (
	"encoding/json"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/freightflowhq/freightflowbackend/database"
	"github.com/freightflowhq/freightflowbackend/dto"
	"github.com/freightflowhq/freightflowbackend/events"
	"github.com/freightflowhq/freightflowbackend/metrics"
	"github.com/freightflowhq/freightflowbackend/models"
	"github.com/freightflowhq/freightflowbackend/utils"
)

// ====== CreateQuoteRequest (public) ==========================================================================
// POST /quotations/requests
func CreateQuoteRequest(pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.CreateQuoteRequestDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if problems := body.Validate(); len(problems) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": strings.Join(problems, ", ")})
			return
		}

		urgency := models.Urgency(body.Urgency)
		if urgency == "" {
			urgency = models.UrgencyStandard
		}

		dims := models.Dimensions{
			Length: body.Dimensions.Length,
			Width:  body.Dimensions.Width,
			Height: body.Dimensions.Height,
		}

		now := time.Now().UTC()
		req := models.QuoteRequest{
			ID: bson.NewObjectID(),

			CustomerName:  strings.TrimSpace(body.CustomerName),
			CustomerEmail: strings.ToLower(strings.TrimSpace(body.CustomerEmail)),
			CustomerPhone: strings.TrimSpace(body.CustomerPhone),
			Company:       strings.TrimSpace(body.Company),
			CustomerType:  strings.TrimSpace(body.CustomerType),

			Origin:      strings.TrimSpace(body.Origin),
			Destination: strings.TrimSpace(body.Destination),
			ServiceType: models.ServiceType(body.ServiceType),
			PackageType: strings.TrimSpace(body.PackageType),

			Weight:     body.Weight,
			Dimensions: dims,
			Volume:     dims.VolumeCbm(),
			Commodity:  strings.TrimSpace(body.Commodity),
			Value:      body.Value,

			Urgency:             urgency,
			Incoterms:           body.Incoterms,
			AdditionalServices:  body.AdditionalServices,
			SpecialRequirements: strings.TrimSpace(body.SpecialRequirements),
			Notes:               strings.TrimSpace(body.Notes),

			Status:     models.QuoteStatusPending,
			AdminNotes: []models.QuoteAdminNote{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		col := database.OpenCollection("quote_requests")
		if _, err := col.InsertOne(ctx, req); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		metrics.QuoteRequestsCreated.Inc()
		pub.Publish(ctx, events.TypeQuoteCreated, req.ID.Hex(), gin.H{
			"serviceType": req.ServiceType,
			"origin":      req.Origin,
			"destination": req.Destination,
		})

		c.JSON(http.StatusCreated, req)
	}
}

// ====== GetQuoteRequests (staff) =============================================================================
// GET /quotations/requests?status=&serviceType=&customerName=&page=&limit=
func GetQuoteRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quote_requests")

		maxLimit, defaultLimit := utils.GetDefaultQueryLimits()

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > maxLimit {
			limit = defaultLimit
		}
		skip := int64((page - 1) * limit)

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}
		if st := strings.TrimSpace(c.Query("serviceType")); st != "" {
			filter["serviceType"] = st
		}
		if name := strings.TrimSpace(c.Query("customerName")); name != "" {
			filter["customerName"] = bson.M{"$regex": regexp.QuoteMeta(name), "$options": "i"}
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		quotes := make([]models.QuoteRequest, 0)
		for cursor.Next(ctx) {
			var q models.QuoteRequest
			if err := cursor.Decode(&q); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			quotes = append(quotes, q)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		total, err := col.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"quotes": quotes,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
				"pages": int(math.Ceil(float64(total) / float64(limit))),
			},
		})
	}
}

// ====== GetQuoteRequest (staff) ==============================================================================
// GET /quotations/requests/:id
func GetQuoteRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quote_requests")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote request id"})
			return
		}

		var req models.QuoteRequest
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
			return
		}

		c.JSON(http.StatusOK, req)
	}
}

// ====== ProvideQuote (staff) =================================================================================
// PUT /quotations/requests/:id/quote
// Body: { "quotedPrice": 1250, "validUntil": "...", "notes": "..." }
//
// quotedPrice and validUntil are set together, never separately; only a
// pending request can be quoted. The status condition on the update doubles
// as the guard against two agents quoting the same request at once.
func ProvideQuote(pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quote_requests")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote request id"})
			return
		}

		var body dto.ProvideQuoteDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if problems := body.Validate(); len(problems) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": strings.Join(problems, ", ")})
			return
		}

		now := time.Now().UTC()
		set := bson.M{
			"status":      models.QuoteStatusQuoted,
			"quotedPrice": body.QuotedPrice,
			"validUntil":  body.ValidUntil,
			"updatedAt":   now,
		}
		if notes := strings.TrimSpace(body.Notes); notes != "" {
			set["notes"] = notes
		}

		res, err := col.UpdateOne(ctx,
			bson.M{"_id": id, "status": models.QuoteStatusPending},
			bson.M{"$set": set},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			var existing models.QuoteRequest
			if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{
				"error": "only a pending quote request can be quoted, current status: " + string(existing.Status),
			})
			return
		}

		pub.Publish(ctx, events.TypeQuoteQuoted, id.Hex(), gin.H{
			"quotedPrice": body.QuotedPrice,
			"validUntil":  body.ValidUntil,
		})

		var updated models.QuoteRequest
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ====== UpdateQuoteStatus (staff) ============================================================================
// PUT /quotations/requests/:id/status
// Body: { "status": "accepted", "notes": "..." }
func UpdateQuoteStatus(pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quote_requests")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote request id"})
			return
		}

		var body dto.UpdateQuoteStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		next := models.QuoteStatus(body.Status)
		if !models.IsQuoteStatus(body.Status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid status value",
				"allowed": []string{"pending", "quoted", "accepted", "rejected", "expired"},
			})
			return
		}
		if next == models.QuoteStatusQuoted {
			// quoted requires quotedPrice+validUntil; that's the provide-quote flow.
			c.JSON(http.StatusConflict, gin.H{"error": "use the quote endpoint to move a request to quoted"})
			return
		}

		var current models.QuoteRequest
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&current); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
			return
		}
		if !models.CanTransitionQuote(current.Status, next) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "cannot transition quote request from " + string(current.Status) + " to " + string(next),
			})
			return
		}

		set := bson.M{
			"status":    next,
			"updatedAt": time.Now().UTC(),
		}
		if notes := strings.TrimSpace(body.Notes); notes != "" {
			set["notes"] = notes
		}

		// Condition on the status we just validated so a concurrent writer
		// loses cleanly instead of last-write-wins.
		res, err := col.UpdateOne(ctx,
			bson.M{"_id": id, "status": current.Status},
			bson.M{"$set": set},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "quote request changed concurrently, retry"})
			return
		}

		pub.Publish(ctx, events.TypeStatusChanged, id.Hex(), gin.H{
			"from": current.Status,
			"to":   next,
		})

		c.JSON(http.StatusOK, gin.H{"ok": true, "status": next})
	}
}

// ====== MarkExpiredQuotes (staff / cron) =====================================================================
// POST /quotations/requests/mark-expired
//
// The only place validUntil expiry is enforced. Invoked by an external
// scheduler; nothing in-process runs it on a cadence.
func MarkExpiredQuotes(pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quote_requests")

		now := time.Now().UTC()
		res, err := col.UpdateMany(ctx,
			bson.M{
				"status":     models.QuoteStatusQuoted,
				"validUntil": bson.M{"$lt": now},
			},
			bson.M{"$set": bson.M{
				"status":    models.QuoteStatusExpired,
				"updatedAt": now,
			}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if res.ModifiedCount > 0 {
			metrics.QuotesExpired.Add(float64(res.ModifiedCount))
			pub.Publish(ctx, events.TypeExpiredBatch, "", gin.H{"updated": res.ModifiedCount})
		}

		c.JSON(http.StatusOK, gin.H{"updated": res.ModifiedCount})
	}
}

// ====== Quote notes (staff) ==================================================================================
// GET /quotations/requests/:id/notes
func GetQuoteNotes() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quote_requests")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote request id"})
			return
		}

		var req models.QuoteRequest
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": req.AdminNotes})
	}
}

// POST /quotations/requests/:id/notes
// multipart/form-data:
//   - data: JSON string (AddQuoteNoteDTO)
//   - file: optional attachment; a PDF also becomes the request's quotePdf
func AddQuoteNote() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quote_requests")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote request id"})
			return
		}

		dataStr := c.PostForm("data")
		if dataStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data field"})
			return
		}
		var body dto.AddQuoteNoteDTO
		if err := json.Unmarshal([]byte(dataStr), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json", "details": err.Error()})
			return
		}
		body.Content = strings.TrimSpace(body.Content)
		if body.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}

		authorIDStr, _ := c.Get("userID")
		authorEmail, _ := c.Get("email")
		authorID, _ := bson.ObjectIDFromHex(authorIDStr.(string))

		note := models.QuoteAdminNote{
			ID:          bson.NewObjectID(),
			AuthorID:    authorID,
			AuthorEmail: authorEmail.(string),
			Content:     body.Content,
			CreatedAt:   time.Now().UTC(),
		}

		update := bson.M{
			"$push": bson.M{"adminNotes": note},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		}

		// optional attachment
		fh, ferr := c.FormFile("file")
		if ferr == nil && fh != nil {
			gcsClient, bucket, err := utils.NewGCSClient(ctx)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create GCS client"})
				return
			}
			att, err := utils.UploadQuoteAttachmentToGCS(ctx, gcsClient, bucket, id.Hex(), fh)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			note.Attachment = att
			update["$push"] = bson.M{"adminNotes": note}
			if att.MimeType == "application/pdf" {
				update["$set"] = bson.M{
					"quotePdf":  att,
					"updatedAt": time.Now().UTC(),
				}
			}
		}

		res, err := col.UpdateByID(ctx, id, update)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
			return
		}

		c.JSON(http.StatusCreated, note)
	}
}
