package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sgtokt1221/tsukutan-app/internal/importer"
	"github.com/sgtokt1221/tsukutan-app/internal/model"
	"github.com/sgtokt1221/tsukutan-app/internal/store"
)

type AdminHandler struct {
	db       *gorm.DB
	roster   *importer.RosterImporter
	workbook *importer.WorkbookImporter
	catalog  *store.CatalogStore
}

func NewAdminHandler(db *gorm.DB, roster *importer.RosterImporter, workbook *importer.WorkbookImporter, catalog *store.CatalogStore) *AdminHandler {
	return &AdminHandler{db: db, roster: roster, workbook: workbook, catalog: catalog}
}

// ImportRoster creates student accounts from an uploaded class roster CSV.
func (h *AdminHandler) ImportRoster(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	result, err := h.roster.Import(c.Request.Context(), file)
	if err != nil {
		log.Printf("Roster import failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "roster import failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ImportVocabulary loads catalog items from an uploaded textbook workbook.
func (h *AdminHandler) ImportVocabulary(c *gin.Context) {
	textbook := c.PostForm("textbook")
	if textbook == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "textbook is required"})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	result, err := h.workbook.Import(c.Request.Context(), file, textbook)
	if err != nil {
		log.Printf("Vocabulary import failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "vocabulary import failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListStudents returns all student accounts with their progress snapshots.
func (h *AdminHandler) ListStudents(c *gin.Context) {
	var students []model.User
	if err := h.db.Where("role = ?", model.RoleStudent).Order("student_id").Find(&students).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"students": students, "count": len(students)})
}

// GetStudent returns one student's profile plus recent study activity.
func (h *AdminHandler) GetStudent(c *gin.Context) {
	studentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student ID"})
		return
	}

	var student model.User
	if err := h.db.First(&student, studentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	var activity []model.StudyLogDaily
	h.db.Where("user_id = ? AND date > ?", studentID, thirtyDaysAgo).
		Order("date DESC").
		Find(&activity)

	var reviewCount int64
	h.db.Model(&model.ReviewRecord{}).Where("user_id = ?", studentID).Count(&reviewCount)

	c.JSON(http.StatusOK, gin.H{
		"student":     student,
		"activity":    activity,
		"reviewCount": reviewCount,
	})
}

type DashboardStats struct {
	TotalStudents    int64            `json:"totalStudents"`
	StudentsWithGoal int64            `json:"studentsWithGoal"`
	TotalReviews     int64            `json:"totalReviews"`
	WordsByTextbook  map[string]int64 `json:"wordsByTextbook"`
	PendingReports   int64            `json:"pendingReports"`
	ActiveToday      int64            `json:"activeToday"`
}

// GetStats returns dashboard statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	var stats DashboardStats

	h.db.Model(&model.User{}).Where("role = ?", model.RoleStudent).Count(&stats.TotalStudents)
	h.db.Model(&model.User{}).
		Where("role = ? AND goal->>'isSet' = 'true'", model.RoleStudent).
		Count(&stats.StudentsWithGoal)
	h.db.Model(&model.ReviewRecord{}).Count(&stats.TotalReviews)
	h.db.Model(&model.WordReport{}).Where("status = ?", model.StatusPending).Count(&stats.PendingReports)

	today := time.Now().Format("2006-01-02")
	h.db.Model(&model.StudyLogDaily{}).Where("date = ?", today).Count(&stats.ActiveToday)

	counts, err := h.catalog.CountByTextbook(c.Request.Context())
	if err != nil {
		log.Printf("Failed to count catalog: %v", err)
		counts = map[string]int64{}
	}
	stats.WordsByTextbook = counts

	c.JSON(http.StatusOK, stats)
}

// ListReports returns all word reports with pagination and filters
func (h *AdminHandler) ListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := c.Query("status")
	issueType := c.Query("issueType")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	query := h.db.Model(&model.WordReport{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if issueType != "" {
		query = query.Where("issue_type = ?", issueType)
	}

	var totalCount int64
	query.Count(&totalCount)

	var reports []model.WordReport
	query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reports)

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"data":       reports,
		"page":       page,
		"limit":      limit,
		"totalCount": totalCount,
		"totalPages": totalPages,
	})
}

type UpdateReportRequest struct {
	Status     string `json:"status" binding:"required"`
	ReviewNote string `json:"reviewNote"`
}

// UpdateReport updates the status of a word report
func (h *AdminHandler) UpdateReport(c *gin.Context) {
	reportID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report ID"})
		return
	}

	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	validStatuses := map[string]bool{
		model.StatusPending:   true,
		model.StatusResolved:  true,
		model.StatusDismissed: true,
	}
	if !validStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	userID, _ := c.Get("userID")

	var report model.WordReport
	if err := h.db.First(&report, reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	reviewerID := userID.(int64)
	report.Status = req.Status
	report.ReviewNote = req.ReviewNote
	report.ReviewedBy = &reviewerID
	report.UpdatedAt = time.Now()

	if err := h.db.Save(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update report"})
		return
	}

	c.JSON(http.StatusOK, report)
}
