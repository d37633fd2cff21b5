package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/repository/specification"
	"campus-chatbot-be/internal/repository/unitofwork"
	"campus-chatbot-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	return unitofwork.NewRepositoryFactory(gormDB)
}

func TestGormConnection(t *testing.T) {
	uowFactory := connect(t)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.AuditLogRepository())
	assert.NotNil(t, uow.StaffRepository())
	assert.NotNil(t, uow.IndexVersionRepository())
	assert.NotNil(t, uow.IndexChunkRepository())
}

func TestDocumentRoundTrip(t *testing.T) {
	uowFactory := connect(t)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	doc := entity.Document{
		Id:        uuid.New(),
		Folder:    "integration-test",
		Filename:  uuid.NewString() + ".txt",
		Content:   []byte("integration round trip"),
		Size:      22,
		CreatedAt: time.Now(),
	}
	require.NoError(t, uow.DocumentRepository().Create(ctx, &doc))
	defer func() {
		_ = uow.DocumentRepository().Delete(ctx, doc.Id)
	}()

	found, err := uow.DocumentRepository().FindOne(ctx, specification.ByFolderAndFilename{
		Folder:   doc.Folder,
		Filename: doc.Filename,
	})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, doc.Content, found.Content)
}

func TestStaffUpsertRefreshes(t *testing.T) {
	uowFactory := connect(t)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	staffId := "it-" + uuid.NewString()[:8]

	require.NoError(t, uow.StaffRepository().Upsert(ctx, &entity.Staff{
		StaffId:   staffId,
		StaffName: "Before",
		LastLogin: time.Now().Add(-time.Hour),
		CreatedAt: time.Now(),
	}))
	require.NoError(t, uow.StaffRepository().Upsert(ctx, &entity.Staff{
		StaffId:   staffId,
		StaffName: "After",
		LastLogin: time.Now(),
		CreatedAt: time.Now(),
	}))

	found, err := uow.StaffRepository().FindOne(ctx, staffId)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "After", found.StaffName)
}
