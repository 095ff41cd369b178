package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/models"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/repository"
	"github.com/anhkhoavan24-art/SuiClouds/common/clients"
	"github.com/anhkhoavan24-art/SuiClouds/common/logger"
	"github.com/anhkhoavan24-art/SuiClouds/common/walrus"
)

// BlobStore is the slice of the walrus client the orchestrators need
type BlobStore interface {
	Store(ctx context.Context, data []byte, opts walrus.StoreOptions) string
	Delete(ctx context.Context, blobID string) error
	BlobURL(blobID string) string
	ExplorerBlobURL(blobID string) string
}

// Estimator computes a price quote for a prospective upload
type Estimator interface {
	Estimate(ctx context.Context, sizeBytes int64, epochs int) (*models.PriceQuote, error)
}

// BatchFile is one file submitted to an upload batch
type BatchFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadService drives one batch of files end-to-end: estimate, confirm,
// upload, persist, report progress. Items run strictly sequentially so
// confirmation prompts appear one at a time in file order and progress stays
// monotonic. One file's failure never aborts the batch.
type UploadService struct {
	repo      repository.FileRepository
	blobs     BlobStore
	estimator Estimator
	bridge    *ConfirmationBridge
	epochs    int
	log       *logger.Logger

	mu      sync.Mutex
	batches map[string]*batchState

	// Batch that owns the bridge's outstanding confirmation, if any.
	// Guarded by mu.
	pendingBatch string
}

type batchState struct {
	mu    sync.Mutex
	batch models.UploadBatch
}

// NewUploadService creates a new upload orchestrator
func NewUploadService(
	repo repository.FileRepository,
	blobs BlobStore,
	estimator Estimator,
	bridge *ConfirmationBridge,
	defaultEpochs int,
	log *logger.Logger,
) *UploadService {
	if defaultEpochs < 1 {
		defaultEpochs = 1
	}
	return &UploadService{
		repo:      repo,
		blobs:     blobs,
		estimator: estimator,
		bridge:    bridge,
		epochs:    defaultEpochs,
		log:       log,
		batches:   make(map[string]*batchState),
	}
}

// StartBatch registers the batch and begins processing it in the background.
// The returned id is used to poll progress and to answer confirmations.
func (s *UploadService) StartBatch(ctx context.Context, files []BatchFile) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("batch is empty")
	}

	items := make([]models.UploadItem, len(files))
	for i, f := range files {
		items[i] = models.UploadItem{
			Name:        f.Name,
			SizeBytes:   int64(len(f.Data)),
			ContentType: f.ContentType,
			Status:      models.ItemReady,
		}
	}

	state := &batchState{
		batch: models.UploadBatch{
			ID:        uuid.New().String(),
			Items:     items,
			CreatedAt: time.Now(),
		},
	}

	s.mu.Lock()
	s.batches[state.batch.ID] = state
	s.mu.Unlock()

	// Keep caller identity and signer address but outlive the request
	go s.run(context.WithoutCancel(ctx), state, files)

	return state.batch.ID, nil
}

// Batch returns a snapshot of the batch's progress
func (s *UploadService) Batch(id string) (models.UploadBatch, bool) {
	s.mu.Lock()
	state, ok := s.batches[id]
	s.mu.Unlock()
	if !ok {
		return models.UploadBatch{}, false
	}

	state.mu.Lock()
	snapshot := state.batch
	snapshot.Items = append([]models.UploadItem(nil), state.batch.Items...)
	state.mu.Unlock()

	// A pending quote is only visible on the batch that raised it
	s.mu.Lock()
	if s.pendingBatch == id {
		snapshot.PendingQuote = s.bridge.Pending()
	}
	s.mu.Unlock()

	return snapshot, true
}

// Confirm answers the confirmation request outstanding for this batch.
// A decision posted against a batch that is not waiting never resolves
// another batch's quote.
func (s *UploadService) Confirm(id string, decision Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.batches[id]; !ok {
		return repository.ErrNotFound
	}
	if s.pendingBatch != id {
		return ErrNoPendingConfirmation
	}

	// Resolved under mu so ownership cannot change between the check and
	// the delivery
	return s.bridge.Resolve(decision)
}

// run processes the batch sequentially, one item at a time
func (s *UploadService) run(ctx context.Context, state *batchState, files []BatchFile) {
	log := s.log.WithBatchID(state.batch.ID)
	total := len(files)

	for i, file := range files {
		s.processItem(ctx, state, i, file, log)

		// Progress counts processed items, terminal in any status
		state.mu.Lock()
		state.batch.Progress = int(math.Round(float64(i+1) / float64(total) * 100))
		state.mu.Unlock()
	}

	state.mu.Lock()
	state.batch.Done = true
	state.mu.Unlock()

	log.Info("batch complete", "files", total)
}

// processItem runs one file through estimate, confirm, upload, persist.
// Any failure is contained to the item.
func (s *UploadService) processItem(ctx context.Context, state *batchState, i int, file BatchFile, log *logger.Logger) {
	setStatus := func(status models.ItemStatus) {
		state.mu.Lock()
		state.batch.Items[i].Status = status
		state.mu.Unlock()
	}

	// 1. Estimate. A failed estimation is logged and the item proceeds
	// straight to upload with no chosen tier.
	setStatus(models.ItemEstimating)
	var chosenTier string
	quote, err := s.estimator.Estimate(ctx, int64(len(file.Data)), s.epochs)
	if err != nil {
		log.Warn("estimation failed, skipping confirmation", "file", file.Name, "error", err)
		quote = nil
	}

	// 2. Confirm. Cancel is a normal terminal outcome for this item only.
	if quote != nil {
		setStatus(models.ItemConfirming)

		s.mu.Lock()
		s.pendingBatch = state.batch.ID
		s.mu.Unlock()

		decision, err := s.bridge.Request(ctx, quote)

		s.mu.Lock()
		s.pendingBatch = ""
		s.mu.Unlock()

		if err != nil {
			log.Error("confirmation failed", "file", file.Name, "error", err)
			state.mu.Lock()
			state.batch.Items[i].Status = models.ItemError
			state.batch.Items[i].Error = err.Error()
			state.mu.Unlock()
			return
		}
		if !decision.Proceed {
			log.Info("upload cancelled by user", "file", file.Name)
			setStatus(models.ItemCancelled)
			return
		}
		chosenTier = decision.ChosenTierKey
	}

	// 3. Upload through the fallback chain; it always yields an identifier
	setStatus(models.ItemUploading)

	signer, _ := clients.GetSigner(ctx)
	blobID := s.blobs.Store(ctx, file.Data, walrus.StoreOptions{
		Identifier:    file.Name,
		Epochs:        s.epochs,
		Deletable:     true,
		ContentType:   file.ContentType,
		ChosenTierKey: chosenTier,
		SignerAddress: signer,
	})

	setStatus(models.ItemUploaded)

	// 4. Persist the durable record
	record := &models.FileRecord{
		ID:          uuid.New().String(),
		BlobID:      blobID,
		Name:        file.Name,
		SizeBytes:   int64(len(file.Data)),
		MediaKind:   models.InferMediaKind(file.ContentType),
		CreatedAt:   time.Now(),
		RemoteURL:   ptr(s.blobs.BlobURL(blobID)),
		ExplorerURL: ptr(s.blobs.ExplorerBlobURL(blobID)),
	}

	if err := s.repo.Put(ctx, record); err != nil {
		log.Error("failed to persist file record", "file", file.Name, "error", err)
		state.mu.Lock()
		state.batch.Items[i].Status = models.ItemError
		state.batch.Items[i].Error = err.Error()
		state.mu.Unlock()
		return
	}

	state.mu.Lock()
	state.batch.Items[i].FileID = record.ID
	state.batch.Items[i].BlobID = blobID
	state.mu.Unlock()

	log.Info("file uploaded", "file", file.Name, "blob_id", blobID, "synthetic", walrus.IsSynthetic(blobID))
}
