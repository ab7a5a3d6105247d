package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgtokt1221/tsukutan-app/internal/client"
	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

// BackfillHandler runs background jobs that fill missing example sentences
// on catalog items through the LLM proxy.
type BackfillHandler struct {
	db        *gorm.DB
	llmClient *client.LLMClient
	mu        sync.RWMutex
	jobs      map[string]*BackfillJob
	cancelFns map[string]context.CancelFunc
}

type BackfillJob struct {
	JobID     string     `json:"jobId"`
	Status    string     `json:"status"` // running, completed, stopped, failed
	Textbook  string     `json:"textbook"`
	Workers   int        `json:"workers"`
	DelayMs   int        `json:"delayMs"`
	Total     int        `json:"total"`
	Completed int64      `json:"completed"`
	Failed    int64      `json:"failed"`
	Errors    []JobError `json:"errors"`
	StartedAt time.Time  `json:"startedAt"`
	mu        sync.Mutex
}

type JobError struct {
	Word  string `json:"word"`
	Error string `json:"error"`
}

type BackfillRequest struct {
	Textbook string `json:"textbook" binding:"required"`
	Workers  int    `json:"workers"`
	DelayMs  int    `json:"delayMs"`
}

func NewBackfillHandler(db *gorm.DB, llmClient *client.LLMClient) *BackfillHandler {
	return &BackfillHandler{
		db:        db,
		llmClient: llmClient,
		jobs:      make(map[string]*BackfillJob),
		cancelFns: make(map[string]context.CancelFunc),
	}
}

// Start launches a background job for items with no example sentence.
func (h *BackfillHandler) Start(c *gin.Context) {
	var req BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "textbook is required"})
		return
	}

	if req.Workers <= 0 {
		req.Workers = 5
	}
	if req.Workers > 100 {
		req.Workers = 100
	}
	if req.DelayMs <= 0 {
		req.DelayMs = 3000
	}

	// One running job per textbook
	h.mu.RLock()
	for _, job := range h.jobs {
		if job.Status == "running" && job.Textbook == req.Textbook {
			h.mu.RUnlock()
			c.JSON(http.StatusConflict, gin.H{
				"error": "A backfill job is already running for this textbook",
				"jobId": job.JobID,
			})
			return
		}
	}
	h.mu.RUnlock()

	var total int64
	h.db.Model(&model.Word{}).
		Where("textbook = ? AND (example IS NULL OR example = '')", req.Textbook).
		Count(&total)

	if total == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "No words without examples found for this textbook",
			"total":   0,
		})
		return
	}

	jobID := uuid.New().String()
	job := &BackfillJob{
		JobID:     jobID,
		Status:    "running",
		Textbook:  req.Textbook,
		Workers:   req.Workers,
		DelayMs:   req.DelayMs,
		Total:     int(total),
		Errors:    []JobError{},
		StartedAt: time.Now(),
	}

	ctx, cancel := context.WithCancel(context.Background())

	h.mu.Lock()
	h.jobs[jobID] = job
	h.cancelFns[jobID] = cancel
	h.mu.Unlock()

	go h.runJob(ctx, job)

	c.JSON(http.StatusOK, gin.H{
		"jobId":   jobID,
		"status":  "started",
		"total":   total,
		"workers": req.Workers,
	})
}

// Status returns the progress of a backfill job.
func (h *BackfillHandler) Status(c *gin.Context) {
	jobID := c.Param("jobId")

	h.mu.RLock()
	job, exists := h.jobs[jobID]
	h.mu.RUnlock()

	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	completed := atomic.LoadInt64(&job.Completed)
	failed := atomic.LoadInt64(&job.Failed)

	c.JSON(http.StatusOK, gin.H{
		"jobId":   job.JobID,
		"status":  job.Status,
		"workers": job.Workers,
		"progress": gin.H{
			"total":     job.Total,
			"completed": completed,
			"failed":    failed,
			"remaining": int64(job.Total) - completed - failed,
		},
		"startedAt": job.StartedAt,
		"errors":    job.Errors,
	})
}

// Stop cancels all running backfill jobs.
func (h *BackfillHandler) Stop(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stoppedCount := 0
	for jobID, job := range h.jobs {
		if job.Status == "running" {
			if cancel, exists := h.cancelFns[jobID]; exists {
				cancel()
				delete(h.cancelFns, jobID)
			}
			job.Status = "stopped"
			stoppedCount++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Stop signal sent",
		"stoppedCount": stoppedCount,
	})
}

// ListJobs returns all jobs
func (h *BackfillHandler) ListJobs(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	jobs := make([]*BackfillJob, 0, len(h.jobs))
	for _, job := range h.jobs {
		jobs = append(jobs, job)
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// runJob feeds words without examples to a pool of workers.
func (h *BackfillHandler) runJob(ctx context.Context, job *BackfillJob) {
	delay := time.Duration(job.DelayMs) * time.Millisecond

	log.Printf("[BackfillJob %s] Started with %d workers for textbook %s", job.JobID, job.Workers, job.Textbook)

	// Track words currently in flight to avoid duplicates
	processing := make(map[string]bool)
	var processingMu sync.Mutex

	wordChan := make(chan model.Word, job.Workers*2)

	var wg sync.WaitGroup
	for i := 0; i < job.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			h.worker(ctx, job, wordChan, workerID, delay, processing, &processingMu)
		}(i)
	}

	// Producer: fetch words without examples and send to channel
	go func() {
		defer close(wordChan)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				var words []model.Word
				result := h.db.Where("textbook = ? AND (example IS NULL OR example = '')", job.Textbook).
					Order("level ASC, word ASC").
					Limit(job.Workers * 2).
					Find(&words)

				if result.Error != nil {
					log.Printf("[BackfillJob %s] Database error: %v", job.JobID, result.Error)
					return
				}

				if len(words) == 0 {
					return
				}

				processingMu.Lock()
				var toProcess []model.Word
				for _, word := range words {
					if !processing[word.ID] {
						processing[word.ID] = true
						toProcess = append(toProcess, word)
					}
				}
				processingMu.Unlock()

				for _, word := range toProcess {
					select {
					case <-ctx.Done():
						return
					case wordChan <- word:
					}
				}

				// Wait longer if everything is in flight
				if len(toProcess) == 0 {
					time.Sleep(500 * time.Millisecond)
				} else {
					time.Sleep(100 * time.Millisecond)
				}
			}
		}
	}()

	wg.Wait()

	h.mu.Lock()
	if job.Status == "running" {
		job.Status = "completed"
	}
	h.mu.Unlock()

	log.Printf("[BackfillJob %s] Finished - completed: %d, failed: %d", job.JobID, atomic.LoadInt64(&job.Completed), atomic.LoadInt64(&job.Failed))
}

func (h *BackfillHandler) worker(ctx context.Context, job *BackfillJob, wordChan <-chan model.Word, workerID int, delay time.Duration, processing map[string]bool, processingMu *sync.Mutex) {
	maxRetries := 3
	retryDelay := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		case word, ok := <-wordChan:
			if !ok {
				return
			}

			// Skip if another worker filled it meanwhile
			var check model.Word
			h.db.Select("id", "example").Where("id = ?", word.ID).First(&check)
			if check.Example != "" {
				processingMu.Lock()
				delete(processing, word.ID)
				processingMu.Unlock()
				continue
			}

			var example *client.ExampleResponse
			var err error
			for retry := 0; retry < maxRetries; retry++ {
				example, err = h.llmClient.GenerateExample(ctx, word.Word, word.Meaning, word.Level)
				if err == nil {
					break
				}

				errMsg := err.Error()
				if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
					log.Printf("[Worker %d] Rate limited on %s, waiting %v before retry %d/%d",
						workerID, word.Word, retryDelay, retry+1, maxRetries)

					select {
					case <-ctx.Done():
						return
					case <-time.After(retryDelay):
						continue
					}
				} else {
					break
				}
			}

			if err != nil {
				log.Printf("[Worker %d] Error generating example for %s: %v", workerID, word.Word, err)
				atomic.AddInt64(&job.Failed, 1)
				job.mu.Lock()
				if len(job.Errors) < 100 { // Limit error history
					job.Errors = append(job.Errors, JobError{Word: word.Word, Error: err.Error()})
				}
				job.mu.Unlock()
			} else {
				updates := map[string]interface{}{
					"example":    example.Example,
					"example_ja": example.ExampleJa,
				}
				if err := h.db.Model(&word).Updates(updates).Error; err != nil {
					log.Printf("[Worker %d] Error saving %s: %v", workerID, word.Word, err)
					atomic.AddInt64(&job.Failed, 1)
				} else {
					atomic.AddInt64(&job.Completed, 1)
					completed := atomic.LoadInt64(&job.Completed)
					if completed%100 == 0 {
						log.Printf("[BackfillJob %s] Progress: %d/%d completed", job.JobID, completed, job.Total)
					}
				}
			}

			processingMu.Lock()
			delete(processing, word.ID)
			processingMu.Unlock()

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
	}
}
