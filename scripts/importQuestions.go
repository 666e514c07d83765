package main

import (
	"edutalks/config"
	"edutalks/database"
	"edutalks/models"
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"
)

// Imports a question bank CSV into an existing quiz. Expected columns:
// quiz_id, text, type, points, explanation, option_1..option_4, correct
// (1-based option number; for fill_blank only option_1 is read).
func main() {
	config.LoadConfig()
	database.ConnectDb()

	path := "QuestionBank.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	inserted := 0
	skipped := 0
	touchedQuizzes := make(map[uint]bool)

	for i, row := range records[1:] {
		quizID := uint(parseInt(getField(row, headerIndex, "quiz_id")))
		text := getField(row, headerIndex, "text")
		qType := getField(row, headerIndex, "type")
		correct := parseInt(getField(row, headerIndex, "correct"))

		if quizID == 0 || text == "" {
			skipped++
			continue
		}
		if qType != models.QuestionMultipleChoice && qType != models.QuestionTrueFalse && qType != models.QuestionFillBlank {
			log.Printf("Row %d: unknown question type %q, skipping", i+2, qType)
			skipped++
			continue
		}

		var quiz models.Quiz
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
			log.Printf("Row %d: quiz %d not found, skipping", i+2, quizID)
			skipped++
			continue
		}

		points := parseInt(getField(row, headerIndex, "points"))
		if points <= 0 {
			points = 1
		}

		var options []models.QuestionOption
		if qType == models.QuestionFillBlank {
			answer := getField(row, headerIndex, "option_1")
			if answer == "" {
				skipped++
				continue
			}
			options = append(options, models.QuestionOption{
				OptionText: answer,
				IsCorrect:  true,
				OrderIndex: 0,
			})
		} else {
			for n := 1; n <= 4; n++ {
				optText := getField(row, headerIndex, "option_"+strconv.Itoa(n))
				if optText == "" {
					continue
				}
				options = append(options, models.QuestionOption{
					OptionText: optText,
					IsCorrect:  n == correct,
					OrderIndex: len(options),
				})
			}
			if len(options) < 2 || correct < 1 || correct > len(options) {
				log.Printf("Row %d: invalid option set, skipping", i+2)
				skipped++
				continue
			}
		}

		var count int64
		database.Database.Db.Model(&models.Question{}).Where("quiz_id = ?", quiz.ID).Count(&count)

		question := models.Question{
			QuizID:      quiz.ID,
			OrderIndex:  int(count),
			Text:        text,
			Type:        qType,
			Points:      points,
			Explanation: getField(row, headerIndex, "explanation"),
			Options:     options,
		}

		if err := database.Database.Db.Create(&question).Error; err != nil {
			log.Printf("Row %d: error inserting question: %v", i+2, err)
			continue
		}
		inserted++
		touchedQuizzes[quiz.ID] = true
	}

	// Recompute derived totals on every quiz that gained questions
	for quizID := range touchedQuizzes {
		var questions []models.Question
		database.Database.Db.Where("quiz_id = ? AND is_deleted = ?", quizID, false).Find(&questions)

		totalPoints := 0
		for _, q := range questions {
			totalPoints += q.Points
		}

		database.Database.Db.Model(&models.Quiz{}).Where("id = ?", quizID).Updates(map[string]interface{}{
			"total_questions": len(questions),
			"total_points":    totalPoints,
		})
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", inserted)
	log.Printf("Skipped: %d", skipped)
	log.Printf("Quizzes updated: %d", len(touchedQuizzes))
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
