package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sgtokt1221/tsukutan-app/internal/config"
	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

type Issue struct {
	Word    string
	ID      string
	Type    string
	Details string
}

func main() {
	workers := flag.Int("workers", 10, "Number of parallel workers")
	textbook := flag.String("textbook", "target1900", "Textbook to audit")
	outputFile := flag.String("output", "audit_results.json", "Output file for results")
	flag.Parse()

	cfg := config.Load()
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Get total count
	var total int64
	db.Model(&model.Word{}).Where("textbook = ?", *textbook).Count(&total)

	fmt.Printf("Auditing %d words with %d workers...\n", total, *workers)

	// Create channel for words
	wordChan := make(chan model.Word, *workers*10)
	issueChan := make(chan Issue, 1000)

	var processed int64
	var issueCount int64
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for word := range wordChan {
				issues := auditWord(word)
				for _, issue := range issues {
					issueChan <- issue
					atomic.AddInt64(&issueCount, 1)
				}
				p := atomic.AddInt64(&processed, 1)
				if p%1000 == 0 {
					fmt.Printf("Progress: %d/%d (%.1f%%), Issues found: %d\n",
						p, total, float64(p)/float64(total)*100, atomic.LoadInt64(&issueCount))
				}
			}
		}()
	}

	// Collect issues
	var issues []Issue
	var issuesMu sync.Mutex
	done := make(chan bool)
	go func() {
		for issue := range issueChan {
			issuesMu.Lock()
			issues = append(issues, issue)
			issuesMu.Unlock()
		}
		done <- true
	}()

	// Fetch words in batches
	startTime := time.Now()
	batchSize := 500
	offset := 0
	for {
		var words []model.Word
		result := db.Where("textbook = ?", *textbook).
			Order("id ASC").
			Offset(offset).
			Limit(batchSize).
			Find(&words)

		if result.Error != nil {
			log.Printf("Database error: %v", result.Error)
			break
		}

		if len(words) == 0 {
			break
		}

		for _, word := range words {
			wordChan <- word
		}
		offset += batchSize
	}

	close(wordChan)
	wg.Wait()
	close(issueChan)
	<-done

	// Ledger-side checks run as single queries, not per word
	issues = append(issues, auditLedger(db)...)

	elapsed := time.Since(startTime)
	fmt.Printf("\n=== Audit Complete ===\n")
	fmt.Printf("Total words: %d\n", total)
	fmt.Printf("Issues found: %d\n", len(issues))
	fmt.Printf("Time elapsed: %v\n", elapsed)

	// Group issues by type
	issuesByType := make(map[string][]Issue)
	for _, issue := range issues {
		issuesByType[issue.Type] = append(issuesByType[issue.Type], issue)
	}

	fmt.Printf("\n=== Issues by Type ===\n")
	for typ, typeIssues := range issuesByType {
		fmt.Printf("%s: %d\n", typ, len(typeIssues))
	}

	// Save results
	output := map[string]interface{}{
		"summary": map[string]interface{}{
			"total":   total,
			"issues":  len(issues),
			"elapsed": elapsed.String(),
		},
		"issuesByType": issuesByType,
		"issues":       issues,
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	if err := os.WriteFile(*outputFile, jsonData, 0644); err != nil {
		log.Printf("Failed to write output file: %v", err)
	} else {
		fmt.Printf("\nResults saved to %s\n", *outputFile)
	}
}

func auditWord(word model.Word) []Issue {
	var issues []Issue

	// Check 1: Meaning should be present and in Japanese
	meaning := strings.TrimSpace(word.Meaning)
	if meaning == "" {
		issues = append(issues, Issue{
			Word: word.Word,
			ID:   word.ID,
			Type: "EMPTY_MEANING",
		})
	} else if !containsJapanese(meaning) {
		issues = append(issues, Issue{
			Word:    word.Word,
			ID:      word.ID,
			Type:    "NON_JAPANESE_MEANING",
			Details: fmt.Sprintf("Meaning has no Japanese text: '%s'", meaning),
		})
	}

	// Check 2: Level in range
	if word.Level < model.MinLevel || word.Level > model.MaxLevel {
		issues = append(issues, Issue{
			Word:    word.Word,
			ID:      word.ID,
			Type:    "LEVEL_OUT_OF_RANGE",
			Details: fmt.Sprintf("Level %d", word.Level),
		})
	}

	// Check 3: Part of speech tag outside the enumeration
	if word.PartOfSpeech != "" {
		if _, ok := model.NormalizePartOfSpeech(string(word.PartOfSpeech)); !ok {
			issues = append(issues, Issue{
				Word:    word.Word,
				ID:      word.ID,
				Type:    "UNKNOWN_POS",
				Details: string(word.PartOfSpeech),
			})
		}
	}

	// Check 4: Example without translation, or vice versa
	hasExample := strings.TrimSpace(word.Example) != ""
	hasExampleJa := strings.TrimSpace(word.ExampleJa) != ""
	if hasExample != hasExampleJa {
		issues = append(issues, Issue{
			Word: word.Word,
			ID:   word.ID,
			Type: "HALF_EXAMPLE",
		})
	}

	// Check 5: Example should actually contain the headword
	if hasExample && !strings.Contains(strings.ToLower(word.Example), strings.ToLower(strings.Fields(word.Word)[0])) {
		issues = append(issues, Issue{
			Word:    word.Word,
			ID:      word.ID,
			Type:    "EXAMPLE_MISSING_WORD",
			Details: fmt.Sprintf("Example: '%s'", word.Example),
		})
	}

	return issues
}

// auditLedger flags review records that can no longer schedule correctly.
func auditLedger(db *gorm.DB) []Issue {
	var issues []Issue

	var orphans []model.ReviewRecord
	db.Where("word_id NOT IN (?)", db.Model(&model.Word{}).Select("id")).
		Limit(1000).
		Find(&orphans)
	for _, rec := range orphans {
		issues = append(issues, Issue{
			ID:      rec.WordID,
			Type:    "ORPHAN_RECORD",
			Details: fmt.Sprintf("User %d references a deleted word", rec.UserID),
		})
	}

	var broken []model.ReviewRecord
	db.Where("ease_factor < ? OR interval < 0 OR next_review_date IS NULL", 1.3).
		Limit(1000).
		Find(&broken)
	for _, rec := range broken {
		issues = append(issues, Issue{
			ID:   rec.WordID,
			Type: "BROKEN_SCHEDULE",
			Details: fmt.Sprintf("User %d: interval=%d ease=%.2f",
				rec.UserID, rec.Interval, rec.EaseFactor),
		})
	}

	return issues
}

func containsJapanese(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}
