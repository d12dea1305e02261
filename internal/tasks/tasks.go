package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/config"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/email"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/storage"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// TaskType defines the type of a background task.
const (
	TypeEmailDelivery  = "email:deliver"
	TypeImageProcess   = "image:process"
	TypeReferenceSweep = "residency:refs:sweep"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg              *config.Config
	emailSender      email.Sender
	storageService   storage.IS3Storage
	residencyService services.IResidencyService
	reconciler       services.IReconcilerService
	taskClient       *asynq.Client
}

func NewTaskProcessor(
	cfg *config.Config,
	emailSender email.Sender,
	storageService storage.IS3Storage,
	residencyService services.IResidencyService,
	reconciler services.IReconcilerService,
	taskClient *asynq.Client,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:              cfg,
		emailSender:      emailSender,
		storageService:   storageService,
		residencyService: residencyService,
		reconciler:       reconciler,
		taskClient:       taskClient,
	}
}

// SetupServer configures an Asynq server instance and its handler mux.
// The caller runs and shuts it down.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				fmt.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v\n", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)
	mux.HandleFunc(TypeImageProcess, processor.HandleImageProcessTask)
	mux.HandleFunc(TypeReferenceSweep, processor.HandleReferenceSweepTask)

	return srv, mux
}

// --- Task Handlers ---

// EmailTaskPayload carries a fully rendered message.
type EmailTaskPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email task payload: %v: %w", err, asynq.SkipRetry)
	}

	rawMessage := email.BuildMessage(p.cfg.SmtpFromAddress, []string{payload.To}, payload.Subject, payload.Body)
	if err := p.emailSender.Send(ctx, []string{payload.To}, payload.Subject, rawMessage); err != nil {
		log.Printf("Email sending failed (will retry): %v", err)
		return err
	}
	return nil
}

// ImageTaskPayload identifies an uploaded residency image to normalize.
type ImageTaskPayload struct {
	S3Key       string `json:"s3_key"`
	ResidencyID string `json:"residency_id"`
}

// HandleImageProcessTask downloads an uploaded image, resizes it into
// bounds if needed, and attaches the key to its residency document.
func (p *TaskProcessor) HandleImageProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImageTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal image task payload: %v: %w", err, asynq.SkipRetry)
	}

	residencyID, err := utils.ParseSixID(payload.ResidencyID)
	if err != nil {
		log.Printf("Invalid ResidencyID in image task payload: %s", payload.ResidencyID)
		return fmt.Errorf("invalid residency ID in payload: %w", asynq.SkipRetry)
	}

	imgData, err := p.storageService.GetObject(ctx, payload.S3Key)
	if err != nil {
		return fmt.Errorf("failed to download image from S3: %w", err)
	}

	maxSizeBytes := int64(p.cfg.ImageMaxSizeMB) * 1024 * 1024
	if int64(len(imgData)) > maxSizeBytes {
		log.Printf("Image %s exceeds max size (%d > %d bytes). Skipping.", payload.S3Key, len(imgData), maxSizeBytes)
		return fmt.Errorf("image exceeds max size: %w", asynq.SkipRetry)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		log.Printf("Error decoding image for key %s: %v", payload.S3Key, err)
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}
	log.Printf("Decoded image %s, format: %s, size: %dx%d", payload.S3Key, format, img.Bounds().Dx(), img.Bounds().Dy())

	maxDim := uint(p.cfg.ImageMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		resizedImg := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resizedImg, &jpeg.Options{Quality: 85}); err != nil {
			return fmt.Errorf("failed to re-encode resized image: %w", err)
		}
		if int64(buf.Len()) > maxSizeBytes {
			return fmt.Errorf("resized image still exceeds max size: %w", asynq.SkipRetry)
		}
		if err := p.storageService.PutObject(ctx, payload.S3Key, "image/jpeg", buf.Bytes()); err != nil {
			return fmt.Errorf("failed to upload processed image: %w", err)
		}
		log.Printf("Resized image %s to %dx%d", payload.S3Key, resizedImg.Bounds().Dx(), resizedImg.Bounds().Dy())
	}

	if err := p.residencyService.AddImage(ctx, residencyID, payload.S3Key); err != nil {
		return fmt.Errorf("failed to update residency with processed image: %w", err)
	}

	log.Printf("Image task processed successfully: Key=%s, ResidencyID=%s", payload.S3Key, payload.ResidencyID)
	return nil
}

// HandleReferenceSweepTask runs one reconciliation pass over the users
// collection and schedules the next one.
func (p *TaskProcessor) HandleReferenceSweepTask(ctx context.Context, t *asynq.Task) error {
	modified, err := p.reconciler.SweepDanglingRefs(ctx)
	if err != nil {
		log.Printf("Reference sweep failed: %v", err)
		return err
	}
	if modified > 0 {
		log.Printf("Reference sweep repaired %d user documents", modified)
	}

	taskInfo, err := p.taskClient.EnqueueContext(ctx, t, asynq.ProcessIn(p.cfg.ReconcileInterval), asynq.Queue("low"))
	if err != nil {
		log.Printf("ERROR failed to re-enqueue reference sweep task: %v", err)
		return err
	}
	log.Printf("Reference sweep done. Re-enqueued task %s to run in %v.", taskInfo.ID, p.cfg.ReconcileInterval)
	return nil
}

// --- Enqueue helpers ---

// NewReferenceSweepTask builds the first sweep task; the handler keeps the
// chain going from there.
func NewReferenceSweepTask() *asynq.Task {
	return asynq.NewTask(TypeReferenceSweep, nil)
}

// ImageQueue enqueues image normalization work for uploaded residency
// images. The handler keeps retrying until the client's upload has landed.
type ImageQueue struct {
	client *asynq.Client
}

func NewImageQueue(client *asynq.Client) *ImageQueue {
	return &ImageQueue{client: client}
}

func (q *ImageQueue) EnqueueImageProcess(ctx context.Context, s3Key string, residencyID utils.SixID) error {
	payload, err := json.Marshal(ImageTaskPayload{S3Key: s3Key, ResidencyID: residencyID.String()})
	if err != nil {
		return fmt.Errorf("encode image task payload: %w", err)
	}
	_, err = q.client.EnqueueContext(ctx, asynq.NewTask(TypeImageProcess, payload,
		asynq.ProcessIn(time.Minute), asynq.MaxRetry(10)))
	if err != nil {
		return fmt.Errorf("enqueue image task: %w", err)
	}
	return nil
}
