package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
	"github.com/sgtokt1221/tsukutan-app/internal/store"
)

type ExportHandler struct {
	records *store.LedgerStore
}

func NewExportHandler(records *store.LedgerStore) *ExportHandler {
	return &ExportHandler{records: records}
}

// Export downloads the learner's review ledger as json, csv, or markdown.
func (h *ExportHandler) Export(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	format := c.DefaultQuery("format", "json")

	items, err := h.records.All(c.Request.Context(), userID.(int64))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ledger unavailable"})
		return
	}

	switch format {
	case "json":
		h.exportJSON(c, items)
	case "csv":
		h.exportCSV(c, items)
	case "md", "markdown":
		h.exportMarkdown(c, items)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Use json, csv, or md"})
	}
}

func (h *ExportHandler) exportJSON(c *gin.Context, items []model.ReviewItem) {
	c.Header("Content-Disposition", "attachment; filename=review-ledger.json")
	c.JSON(http.StatusOK, gin.H{"reviews": items})
}

func (h *ExportHandler) exportCSV(c *gin.Context, items []model.ReviewItem) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	// Header
	writer.Write([]string{"Word", "Meaning", "Level", "Interval", "Ease Factor", "Repetitions", "Next Review"})

	for _, item := range items {
		writer.Write([]string{
			item.Word.Word,
			item.Word.Meaning,
			fmt.Sprintf("%d", item.Word.Level),
			fmt.Sprintf("%d", item.Record.Interval),
			fmt.Sprintf("%.2f", item.Record.EaseFactor),
			fmt.Sprintf("%d", item.Record.Repetitions),
			item.Record.NextReviewDate.Format("2006-01-02"),
		})
	}

	writer.Flush()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=review-ledger.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *ExportHandler) exportMarkdown(c *gin.Context, items []model.ReviewItem) {
	var buf bytes.Buffer

	buf.WriteString("# 復習リスト\n\n")
	buf.WriteString(fmt.Sprintf("**Words:** %d\n\n", len(items)))

	for i, item := range items {
		buf.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, item.Word.Word))
		buf.WriteString(fmt.Sprintf("**意味:** %s\n\n", item.Word.Meaning))
		if item.Word.Example != "" {
			buf.WriteString(fmt.Sprintf("**例文:** %s\n\n", item.Word.Example))
		}
		buf.WriteString(fmt.Sprintf("**次回復習日:** %s\n\n", item.Record.NextReviewDate.Format("2006-01-02")))
		buf.WriteString("---\n\n")
	}

	c.Header("Content-Type", "text/markdown")
	c.Header("Content-Disposition", "attachment; filename=review-ledger.md")
	c.Data(http.StatusOK, "text/markdown", buf.Bytes())
}
