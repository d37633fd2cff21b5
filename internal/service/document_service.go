package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-chatbot-be/internal/constant"
	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/pkg/logger"
	"campus-chatbot-be/internal/pkg/serverutils"
	"campus-chatbot-be/internal/repository/specification"
	"campus-chatbot-be/internal/repository/unitofwork"
	"campus-chatbot-be/pkg/events"
	"campus-chatbot-be/pkg/extract"
	pktNats "campus-chatbot-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IDocumentService interface {
	Add(ctx context.Context, staffId, staffName string, req *dto.AddDocumentRequest) (*dto.AddDocumentResponse, error)
	Update(ctx context.Context, staffId, staffName string, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error)
	Upload(ctx context.Context, staffId, staffName string, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error)
	Delete(ctx context.Context, staffId, staffName string, folder, filename string) error
	Show(ctx context.Context, folder, filename string) (*dto.ShowDocumentResponse, error)
	Download(ctx context.Context, folder, filename string) (*entity.Document, error)
	List(ctx context.Context) (*dto.ListDocumentsResponse, error)
	ListFolders(ctx context.Context) ([]string, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	extractor        *extract.Registry
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	extractor *extract.Registry,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		extractor:        extractor,
		logger:           log,
	}
}

// validateName rejects empty and path-escaping folder or file names
// before they reach the store.
func validateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return serverutils.NewValidationError(kind + " must not be empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return serverutils.NewValidationError(kind + " must not contain path separators or '..'")
	}
	return nil
}

func validateTarget(folder entity.Folder, filename string) error {
	if !folder.IsRoot() {
		if err := validateName("folder", folder.Name()); err != nil {
			return err
		}
	}
	return validateName("filename", filename)
}

func (s *documentService) Add(ctx context.Context, staffId, staffName string, req *dto.AddDocumentRequest) (*dto.AddDocumentResponse, error) {
	folder := entity.ParseFolder(req.Folder)
	if err := validateTarget(folder, req.Filename); err != nil {
		return nil, err
	}

	// The editor only produces text documents; anything else gets a .txt
	// suffix so the content stays editable under its stored name.
	filename := req.Filename
	if entity.Classify(filename) != entity.FileClassEditable {
		filename += ".txt"
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.DocumentRepository().FindOne(ctx, specification.ByFolderAndFilename{
		Folder:   folder.Name(),
		Filename: filename,
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.NewConflict(fmt.Sprintf("document %s already exists", folder.Key(filename)))
	}

	doc := entity.Document{
		Id:        uuid.New(),
		Folder:    folder.Name(),
		Filename:  filename,
		Content:   []byte(req.Content),
		Size:      int64(len(req.Content)),
		CreatedAt: time.Now(),
	}
	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, serverutils.NewConflict(fmt.Sprintf("document %s already exists", doc.Key()))
		}
		return nil, err
	}

	if err := s.recordAudit(ctx, uow, staffId, staffName, constant.AuditActionDocumentAdded, doc.Key()); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.announceChange(ctx, constant.AuditActionDocumentAdded, doc.Key(), staffId)

	return &dto.AddDocumentResponse{Key: doc.Key()}, nil
}

func (s *documentService) Update(ctx context.Context, staffId, staffName string, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error) {
	folder := entity.ParseFolder(req.Folder)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByFolderAndFilename{
		Folder:   folder.Name(),
		Filename: req.Filename,
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.NewNotFound(fmt.Sprintf("document %s not found", folder.Key(req.Filename)))
	}
	if !doc.Editable() {
		return nil, serverutils.NewReadOnly(fmt.Sprintf("document %s is not editable, replace it via upload", doc.Key()))
	}

	now := time.Now()
	doc.Content = []byte(req.Content)
	doc.Size = int64(len(req.Content))
	doc.UpdatedAt = &now

	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.recordAudit(ctx, uow, staffId, staffName, constant.AuditActionDocumentEdited, doc.Key()); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.announceChange(ctx, constant.AuditActionDocumentEdited, doc.Key(), staffId)

	return &dto.UpdateDocumentResponse{Key: doc.Key()}, nil
}

func (s *documentService) Upload(ctx context.Context, staffId, staffName string, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error) {
	folder := entity.ParseFolder(req.Folder)
	if err := validateTarget(folder, req.Filename); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.DocumentRepository().FindOne(ctx, specification.ByFolderAndFilename{
		Folder:   folder.Name(),
		Filename: req.Filename,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	replaced := existing != nil
	key := folder.Key(req.Filename)

	if replaced {
		existing.Content = req.Content
		existing.Size = int64(len(req.Content))
		existing.UpdatedAt = &now
		if err := uow.DocumentRepository().Update(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		doc := entity.Document{
			Id:        uuid.New(),
			Folder:    folder.Name(),
			Filename:  req.Filename,
			Content:   req.Content,
			Size:      int64(len(req.Content)),
			CreatedAt: now,
		}
		if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
			return nil, err
		}
	}

	if err := s.recordAudit(ctx, uow, staffId, staffName, constant.AuditActionFileUploaded, key); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.announceChange(ctx, constant.AuditActionFileUploaded, key, staffId)

	return &dto.UploadDocumentResponse{Key: key, Replaced: replaced}, nil
}

func (s *documentService) Delete(ctx context.Context, staffId, staffName string, folderRaw, filename string) error {
	folder := entity.ParseFolder(folderRaw)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByFolderAndFilename{
		Folder:   folder.Name(),
		Filename: filename,
	})
	if err != nil {
		return err
	}
	if doc == nil {
		return serverutils.NewNotFound(fmt.Sprintf("document %s not found", folder.Key(filename)))
	}

	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		return err
	}

	if err := s.recordAudit(ctx, uow, staffId, staffName, constant.AuditActionDocumentDeleted, doc.Key()); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.announceChange(ctx, constant.AuditActionDocumentDeleted, doc.Key(), staffId)

	return nil
}

func (s *documentService) Show(ctx context.Context, folderRaw, filename string) (*dto.ShowDocumentResponse, error) {
	folder := entity.ParseFolder(folderRaw)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByFolderAndFilename{
		Folder:   folder.Name(),
		Filename: filename,
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.NewNotFound(fmt.Sprintf("document %s not found", folder.Key(filename)))
	}

	// Binary documents surface best-effort extracted text; the raw bytes
	// stay behind Download.
	content := string(doc.Content)
	if !doc.Editable() {
		extracted, err := s.extractor.Extract(doc.Filename, doc.Content)
		if err != nil {
			return nil, err
		}
		content = extracted
	}

	return &dto.ShowDocumentResponse{
		Folder:    folder.DisplayName(),
		Filename:  doc.Filename,
		Content:   content,
		Editable:  doc.Editable(),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *documentService) Download(ctx context.Context, folderRaw, filename string) (*entity.Document, error) {
	folder := entity.ParseFolder(folderRaw)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByFolderAndFilename{
		Folder:   folder.Name(),
		Filename: filename,
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.NewNotFound(fmt.Sprintf("document %s not found", folder.Key(filename)))
	}

	return doc, nil
}

func (s *documentService) ListFolders(ctx context.Context) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	folders, err := uow.DocumentRepository().ListFolders(ctx)
	if err != nil {
		return nil, err
	}

	// The root namespace is always listed, even when empty
	out := make([]string, 0, len(folders)+1)
	out = append(out, constant.RootFolderDisplayName)
	out = append(out, folders...)
	return out, nil
}

func (s *documentService) List(ctx context.Context) (*dto.ListDocumentsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	folders, err := s.ListFolders(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := uow.DocumentRepository().FindAll(ctx, specification.OrderByKey{})
	if err != nil {
		return nil, err
	}

	items := make([]dto.DocumentListItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, dto.DocumentListItem{
			Folder:   entity.ParseFolder(doc.Folder).DisplayName(),
			Filename: doc.Filename,
			Editable: doc.Editable(),
			Size:     int(doc.Size),
		})
	}

	return &dto.ListDocumentsResponse{
		Folders:   folders,
		Documents: items,
	}, nil
}

func (s *documentService) recordAudit(ctx context.Context, uow unitofwork.UnitOfWork, staffId, staffName, action, key string) error {
	return uow.AuditLogRepository().Create(ctx, &entity.AuditLog{
		StaffId:     staffId,
		StaffName:   staffName,
		Action:      action,
		DocumentKey: &key,
		CreatedAt:   time.Now(),
	})
}

// announceChange fans the mutation out to the staleness tracker (in-process)
// and the event bus (cross-service). Neither failure rolls back the write.
func (s *documentService) announceChange(ctx context.Context, action, key, staffId string) {
	payload, err := json.Marshal(dto.DocumentChangedMessage{
		Action:      action,
		DocumentKey: key,
		StaffId:     staffId,
	})
	if err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("DocumentService", "Failed to publish document change message", map[string]interface{}{
				"error": err.Error(),
				"key":   key,
			})
		}
	}

	if err := s.eventPublisher.Publish(ctx, events.NewDocumentChangedEvent(action, key, staffId)); err != nil {
		s.logger.Warn("DocumentService", "Failed to publish DOCUMENT_CHANGED event", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
	}
}
