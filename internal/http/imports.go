package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/lexicon/internal/audit"
	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/parsers"
	"github.com/mrlokans/lexicon/internal/services"
	"github.com/mrlokans/lexicon/internal/tasks"
)

const maxUploadBytes = 10 << 20

type UploadArchive interface {
	SaveImport(principal, source string, payload []byte) (*audit.ImportRecord, error)
}

type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (string, error)
}

type LexiconImporter interface {
	ImportParsed(ctx context.Context, source string, parsed *parsers.ParseResult) (services.ImportResult, error)
}

type CurrentUserResolver interface {
	CurrentUser(ctx context.Context) (*entities.User, error)
}

// ImportController accepts lexicon uploads. With a task queue the import
// runs in the background, otherwise within the request.
type ImportController struct {
	archive  UploadArchive
	queue    TaskQueue
	importer LexiconImporter
	users    CurrentUserResolver
}

func NewImportController(archive UploadArchive, queue TaskQueue, importer LexiconImporter, users CurrentUserResolver) *ImportController {
	return &ImportController{
		archive:  archive,
		queue:    queue,
		importer: importer,
		users:    users,
	}
}

// Import handles POST /api/words/import. The body is either the lexicon text
// itself or a multipart form with a "file" field.
func (ic *ImportController) Import(c *gin.Context) {
	ctx := c.Request.Context()

	// Fail before archiving anything when the caller cannot own words.
	user, err := ic.users.CurrentUser(ctx)
	if err != nil {
		respondServiceError(c, err, "resolve importer")
		return
	}

	payload, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "upload exceeds 10MB"})
			return
		}
		respondBadRequest(c, err.Error())
		return
	}
	if len(strings.TrimSpace(string(payload))) == 0 {
		respondBadRequest(c, "upload is empty")
		return
	}

	source := c.DefaultQuery("source", "upload")
	record, err := ic.archive.SaveImport(user.Email, source, payload)
	if err != nil {
		respondInternalError(c, err, "archive upload")
		return
	}

	if ic.queue != nil {
		taskID, err := ic.queue.Enqueue(ctx, tasks.ImportLexiconTask{ArchiveID: record.ID})
		if err != nil {
			respondInternalError(c, err, "enqueue import")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"task_id":    taskID,
			"archive_id": record.ID,
			"lines":      record.Lines,
		})
		return
	}

	parsed, err := parsers.NewLexiconParser().Parse(strings.NewReader(record.Payload))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	result, err := ic.importer.ImportParsed(ctx, source, parsed)
	if err != nil {
		respondServiceError(c, err, "import lexicon")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"archive_id": record.ID,
		"result":     result,
	})
}

func readUpload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, errors.New("multipart upload needs a \"file\" field")
		}
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}

type TasksController struct {
	queue TaskQueue
}

func NewTasksController(queue TaskQueue) *TasksController {
	return &TasksController{queue: queue}
}

func (tc *TasksController) RegisterRoutes(api gin.IRouter) {
	api.GET("/tasks/:id", tc.Status)
}

// Status handles GET /api/tasks/:id.
func (tc *TasksController) Status(c *gin.Context) {
	id := c.Param("id")
	status, err := tc.queue.Status(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == "not_found" {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "task not found", Code: "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}
