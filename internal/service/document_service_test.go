package service

import (
	"context"
	"testing"

	"campus-chatbot-be/internal/constant"
	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/pkg/serverutils"
	"campus-chatbot-be/internal/repository/contract"
	"campus-chatbot-be/internal/repository/memory"
	"campus-chatbot-be/internal/repository/specification"
	"campus-chatbot-be/internal/repository/unitofwork"
	"campus-chatbot-be/pkg/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDocumentServiceFixture() (IDocumentService, *memory.Factory, *capturingPublisher) {
	factory := memory.NewFactory()
	publisher := &capturingPublisher{}
	svc := NewDocumentService(factory, publisher, nil, extract.NewRegistry(), nopLogger{})
	return svc, factory, publisher
}

func TestAddAndShowDocument(t *testing.T) {
	svc, factory, publisher := newDocumentServiceFixture()
	ctx := context.Background()

	res, err := svc.Add(ctx, "s1", "Alice", &dto.AddDocumentRequest{
		Folder:   "",
		Filename: "faq.txt",
		Content:  "Q: When does enrollment open?",
	})
	require.NoError(t, err)
	assert.Equal(t, "faq.txt", res.Key)

	shown, err := svc.Show(ctx, "", "faq.txt")
	require.NoError(t, err)
	assert.Equal(t, "Q: When does enrollment open?", shown.Content)
	assert.Equal(t, constant.RootFolderDisplayName, shown.Folder)
	assert.True(t, shown.Editable)

	// Exactly one audit entry for the mutation
	logs, err := factory.AuditLogs.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, constant.AuditActionDocumentAdded, logs[0].Action)
	assert.Equal(t, "s1", logs[0].StaffId)
	require.NotNil(t, logs[0].DocumentKey)
	assert.Equal(t, "faq.txt", *logs[0].DocumentKey)

	assert.Equal(t, 1, publisher.count())
}

func TestAddDuplicateIsConflict(t *testing.T) {
	svc, _, _ := newDocumentServiceFixture()
	ctx := context.Background()

	req := &dto.AddDocumentRequest{Folder: "admissions", Filename: "fees.md", Content: "x"}
	_, err := svc.Add(ctx, "s1", "Alice", req)
	require.NoError(t, err)

	_, err = svc.Add(ctx, "s1", "Alice", req)
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeConflict, appErr.Code)
}

func TestAddCoercesNonEditableExtensionToTxt(t *testing.T) {
	svc, factory, _ := newDocumentServiceFixture()
	ctx := context.Background()

	res, err := svc.Add(ctx, "s1", "Alice", &dto.AddDocumentRequest{
		Filename: "handbook.pdf",
		Content:  "just text really",
	})
	require.NoError(t, err)
	assert.Equal(t, "handbook.pdf.txt", res.Key)

	// Stored and audited under the coerced name
	shown, err := svc.Show(ctx, "", "handbook.pdf.txt")
	require.NoError(t, err)
	assert.True(t, shown.Editable)
	assert.Equal(t, "just text really", shown.Content)

	logs, err := factory.AuditLogs.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].DocumentKey)
	assert.Equal(t, "handbook.pdf.txt", *logs[0].DocumentKey)
}

// duplicateOnCreateFactory yields a document repository that passes the
// existence check but fails the insert with the storage duplicate-key
// error, as when a concurrent add lands between the two.
type duplicateOnCreateFactory struct {
	*memory.Factory
}

func (f *duplicateOnCreateFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &duplicateOnCreateUow{UnitOfWork: f.Factory.NewUnitOfWork(ctx)}
}

type duplicateOnCreateUow struct {
	unitofwork.UnitOfWork
}

func (u *duplicateOnCreateUow) DocumentRepository() contract.DocumentRepository {
	return &duplicateOnCreateRepo{DocumentRepository: u.UnitOfWork.DocumentRepository()}
}

type duplicateOnCreateRepo struct {
	contract.DocumentRepository
}

func (r *duplicateOnCreateRepo) Create(ctx context.Context, doc *entity.Document) error {
	return gorm.ErrDuplicatedKey
}

func TestAddRacingDuplicateIsConflict(t *testing.T) {
	factory := &duplicateOnCreateFactory{Factory: memory.NewFactory()}
	svc := NewDocumentService(factory, &capturingPublisher{}, nil, extract.NewRegistry(), nopLogger{})

	_, err := svc.Add(context.Background(), "s1", "Alice", &dto.AddDocumentRequest{Filename: "dup.txt", Content: "x"})
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeConflict, appErr.Code)
}

func TestAddRejectsPathEscapingNames(t *testing.T) {
	svc, _, _ := newDocumentServiceFixture()
	ctx := context.Background()

	bad := []dto.AddDocumentRequest{
		{Filename: "  ", Content: "x"},
		{Filename: "../etc/passwd.txt", Content: "x"},
		{Filename: "a/b.txt", Content: "x"},
		{Folder: "..", Filename: "a.txt", Content: "x"},
	}
	for _, req := range bad {
		_, err := svc.Add(ctx, "s1", "Alice", &req)
		var appErr *serverutils.AppError
		require.ErrorAs(t, err, &appErr, req.Filename)
		assert.Equal(t, serverutils.CodeValidation, appErr.Code, req.Filename)
	}
}

func TestShowBinaryReturnsExtractedText(t *testing.T) {
	svc, _, _ := newDocumentServiceFixture()
	ctx := context.Background()

	content := append([]byte{0x00, 0x01}, []byte("Visiting hours are 9 to 5")...)
	_, err := svc.Upload(ctx, "s1", "Alice", &dto.UploadDocumentRequest{
		Filename: "hours.pdf",
		Content:  append(content, 0x00),
	})
	require.NoError(t, err)

	shown, err := svc.Show(ctx, "", "hours.pdf")
	require.NoError(t, err)
	assert.False(t, shown.Editable)
	assert.Contains(t, shown.Content, "Visiting hours are 9 to 5")
}

func TestUpdateMissingDocumentIsNotFound(t *testing.T) {
	svc, _, _ := newDocumentServiceFixture()

	_, err := svc.Update(context.Background(), "s1", "Alice", &dto.UpdateDocumentRequest{
		Filename: "ghost.txt",
		Content:  "boo",
	})
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeNotFound, appErr.Code)
}

func TestUpdateBinaryDocumentIsReadOnly(t *testing.T) {
	svc, _, _ := newDocumentServiceFixture()
	ctx := context.Background()

	_, err := svc.Upload(ctx, "s1", "Alice", &dto.UploadDocumentRequest{
		Filename: "map.png",
		Content:  []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "s1", "Alice", &dto.UpdateDocumentRequest{
		Filename: "map.png",
		Content:  "not an image",
	})
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeReadOnly, appErr.Code)
}

func TestUploadReplacesExisting(t *testing.T) {
	svc, factory, _ := newDocumentServiceFixture()
	ctx := context.Background()

	first, err := svc.Upload(ctx, "s1", "Alice", &dto.UploadDocumentRequest{
		Folder:   "forms",
		Filename: "request.pdf",
		Content:  []byte("v1"),
	})
	require.NoError(t, err)
	assert.False(t, first.Replaced)

	second, err := svc.Upload(ctx, "s2", "Bob", &dto.UploadDocumentRequest{
		Folder:   "forms",
		Filename: "request.pdf",
		Content:  []byte("v2"),
	})
	require.NoError(t, err)
	assert.True(t, second.Replaced)

	doc, err := svc.Download(ctx, "forms", "request.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), doc.Content)

	logs, err := factory.AuditLogs.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, log := range logs {
		assert.Equal(t, constant.AuditActionFileUploaded, log.Action)
	}
}

func TestDeleteDocument(t *testing.T) {
	svc, factory, publisher := newDocumentServiceFixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "Alice", &dto.AddDocumentRequest{Filename: "old.txt", Content: "stale"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "s1", "Alice", "", "old.txt"))

	_, err = svc.Show(ctx, "", "old.txt")
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeNotFound, appErr.Code)

	count, err := factory.Documents.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Equal(t, 2, publisher.count()) // add + delete
}

func TestDeleteMissingDocumentIsNotFound(t *testing.T) {
	svc, _, publisher := newDocumentServiceFixture()

	err := svc.Delete(context.Background(), "s1", "Alice", "", "ghost.txt")
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeNotFound, appErr.Code)
	assert.Zero(t, publisher.count())
}

func TestMainFolderAliasResolvesToRoot(t *testing.T) {
	svc, factory, _ := newDocumentServiceFixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "Alice", &dto.AddDocumentRequest{
		Folder:   constant.RootFolderDisplayName,
		Filename: "welcome.md",
		Content:  "hi",
	})
	require.NoError(t, err)

	// Stored at root, reachable via the empty folder too
	doc, err := factory.Documents.FindOne(ctx, specification.ByFolderAndFilename{Folder: "", Filename: "welcome.md"})
	require.NoError(t, err)
	require.NotNil(t, doc)

	shown, err := svc.Show(ctx, "", "welcome.md")
	require.NoError(t, err)
	assert.Equal(t, constant.RootFolderDisplayName, shown.Folder)
}

func TestListDocuments(t *testing.T) {
	svc, _, _ := newDocumentServiceFixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "Alice", &dto.AddDocumentRequest{Filename: "root.txt", Content: "a"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", "Alice", &dto.AddDocumentRequest{Folder: "admissions", Filename: "dates.md", Content: "b"})
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "s1", "Alice", &dto.UploadDocumentRequest{Folder: "admissions", Filename: "form.pdf", Content: []byte("c")})
	require.NoError(t, err)

	res, err := svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{constant.RootFolderDisplayName, "admissions"}, res.Folders)
	require.Len(t, res.Documents, 3)

	// Sorted by resolved key: admissions/dates.md, admissions/form.pdf, root.txt
	assert.Equal(t, "dates.md", res.Documents[0].Filename)
	assert.Equal(t, "form.pdf", res.Documents[1].Filename)
	assert.False(t, res.Documents[1].Editable)
	assert.Equal(t, "root.txt", res.Documents[2].Filename)
	assert.Equal(t, constant.RootFolderDisplayName, res.Documents[2].Folder)
}
