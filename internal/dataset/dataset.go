package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"asha-backend/internal/database"
	"asha-backend/internal/storage"

	"gorm.io/gorm"
)

const (
	JobsKey     = "job_listings.csv"
	SessionsKey = "session_details.json"
)

type sessionRecord struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Loader imports the curated dataset files into the database so the local
// retriever can search them.
type Loader struct {
	db       *gorm.DB
	provider storage.Provider
	bucket   string

	// Progress, if set, is called once per imported record.
	Progress func()
}

func NewLoader(db *gorm.DB, provider storage.Provider, bucket string) *Loader {
	return &Loader{db: db, provider: provider, bucket: bucket}
}

// Load imports both dataset files. Missing files are skipped, not errors,
// so a deployment can ship jobs without sessions or vice versa.
func (l *Loader) Load(ctx context.Context) (jobs, sessions int, err error) {
	objects, err := l.provider.ListObjects(ctx, l.bucket, "")
	if err != nil {
		return 0, 0, fmt.Errorf("could not list dataset objects: %w", err)
	}

	available := make(map[string]struct{}, len(objects))
	for _, obj := range objects {
		available[obj.Name] = struct{}{}
	}

	if _, ok := available[JobsKey]; ok {
		jobs, err = l.LoadJobs(ctx)
		if err != nil {
			return 0, 0, err
		}
	}
	if _, ok := available[SessionsKey]; ok {
		sessions, err = l.LoadSessions(ctx)
		if err != nil {
			return jobs, 0, err
		}
	}
	return jobs, sessions, nil
}

// LoadJobs replaces the job_listings table with the contents of the CSV
// file. The header row names the columns; unknown columns are ignored.
func (l *Loader) LoadJobs(ctx context.Context) (int, error) {
	data, err := l.provider.GetObject(ctx, l.bucket, JobsKey)
	if err != nil {
		return 0, fmt.Errorf("could not read %s: %w", JobsKey, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("could not read %s header: %w", JobsKey, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var listings []database.JobListing
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("could not parse %s: %w", JobsKey, err)
		}
		listing := database.JobListing{
			Title:       field(row, "title"),
			Company:     field(row, "company"),
			Location:    field(row, "location"),
			Description: field(row, "description"),
			Skills:      field(row, "skills"),
			URL:         field(row, "url"),
		}
		if listing.Title == "" {
			continue
		}
		listings = append(listings, listing)
	}

	if err := replaceTable(ctx, l.db, listings, l.Progress); err != nil {
		return 0, err
	}
	return len(listings), nil
}

// LoadSessions replaces the mentor_sessions table with the JSON file's
// contents.
func (l *Loader) LoadSessions(ctx context.Context) (int, error) {
	data, err := l.provider.GetObject(ctx, l.bucket, SessionsKey)
	if err != nil {
		return 0, fmt.Errorf("could not read %s: %w", SessionsKey, err)
	}

	var records []sessionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("could not parse %s: %w", SessionsKey, err)
	}

	var sessions []database.MentorSession
	for _, record := range records {
		if record.Title == "" {
			continue
		}
		sessions = append(sessions, database.MentorSession{
			Title:       record.Title,
			Date:        record.Date,
			Description: record.Description,
			Link:        record.Link,
		})
	}

	if err := replaceTable(ctx, l.db, sessions, l.Progress); err != nil {
		return 0, err
	}
	return len(sessions), nil
}

// replaceTable swaps the table contents in one transaction so searches
// never see a half-imported dataset.
func replaceTable[T any](ctx context.Context, db *gorm.DB, rows []T, progress func()) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model T
		if err := tx.Where("1 = 1").Delete(&model).Error; err != nil {
			return err
		}
		for _, row := range rows {
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			if progress != nil {
				progress()
			}
		}
		return nil
	})
}
