package integrationtests

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"asha-backend/internal/database"
	"asha-backend/internal/dataset"
	"asha-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMinioProvider(t *testing.T, ctx context.Context) *storage.S3Provider {
	minioURL := setupMinioContainer(t, ctx)

	os.Setenv("AWS_ACCESS_KEY_ID", minioUsername)
	os.Setenv("AWS_SECRET_ACCESS_KEY", minioPassword)

	provider, err := storage.NewS3Provider(&storage.S3ProviderConfig{
		S3EndpointURL:     minioURL,
		S3AccessKeyID:     minioUsername,
		S3SecretAccessKey: minioPassword,
	})
	require.NoError(t, err)
	return provider
}

func TestS3Provider(t *testing.T) {
	requireIntegrationEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider := newMinioProvider(t, ctx)

	require.NoError(t, provider.CreateBucket(ctx, "datasets"))
	// Creating an existing bucket is not an error.
	require.NoError(t, provider.CreateBucket(ctx, "datasets"))

	require.NoError(t, provider.PutObject(ctx, "datasets", "job_listings.csv", strings.NewReader("title\nEngineer\n")))

	data, err := provider.GetObject(ctx, "datasets", "job_listings.csv")
	require.NoError(t, err)
	assert.Equal(t, "title\nEngineer\n", string(data))

	objects, err := provider.ListObjects(ctx, "datasets", "")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "job_listings.csv", objects[0].Name)
}

func TestDatasetImportFromS3(t *testing.T) {
	requireIntegrationEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider := newMinioProvider(t, ctx)

	require.NoError(t, provider.CreateBucket(ctx, "datasets"))
	require.NoError(t, provider.PutObject(ctx, "datasets", dataset.JobsKey,
		strings.NewReader("title,company,location\nSoftware Engineer,Acme,Mumbai\nData Analyst,Initech,Delhi\n")))
	require.NoError(t, provider.PutObject(ctx, "datasets", dataset.SessionsKey,
		strings.NewReader(`[{"title": "Resume Workshop", "date": "2026-09-01", "description": "Polish your resume"}]`)))

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)

	jobs, sessions, err := dataset.NewLoader(db, provider, "datasets").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, jobs)
	assert.Equal(t, 1, sessions)

	var listing database.JobListing
	require.NoError(t, db.First(&listing, "title = ?", "Software Engineer").Error)
	assert.Equal(t, "Mumbai", listing.Location)
}
