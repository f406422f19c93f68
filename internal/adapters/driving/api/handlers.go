package api

import (
	"io"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	st := s.svc.Status.Status()
	return c.JSON(HealthResponse{
		Status:         "ok",
		LLMEnabled:     st.LLMEnabled,
		LLMProvider:    st.LLMProvider,
		LLMModel:       st.LLMModel,
		EmbeddingMode:  st.EmbeddingMode,
		EmbeddingModel: st.EmbeddingModel,
		VectorBackend:  st.VectorBackend,
	})
}

func (s *Server) handleListDocuments(c *fiber.Ctx) error {
	docs, err := s.svc.Documents.List(c.UserContext())
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return c.JSON(fiber.Map{"documents": docs})
}

func (s *Server) handleGetDocument(c *fiber.Ctx) error {
	doc, err := s.svc.Documents.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

func (s *Server) handleDeleteDocument(c *fiber.Ctx) error {
	doc, err := s.svc.Documents.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": doc})
}

func (s *Server) handleClearDocuments(c *fiber.Ctx) error {
	n, err := s.svc.Documents.Clear(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cleared": n})
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewError(fiber.StatusBadRequest, "multipart form with files required")
	}
	headers := form.File["files"]
	headers = append(headers, form.File["file"]...)
	if len(headers) == 0 {
		return NewError(fiber.StatusBadRequest, "no files uploaded")
	}

	files := make([]driving.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		files = append(files, driving.UploadedFile{
			Name:   fh.Filename,
			Data:   data,
			Source: domain.SourceUpload,
		})
	}

	results, err := s.svc.Ingest.IngestFiles(c.UserContext(), files)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"uploaded": results})
}

func (s *Server) handleIngestDrive(c *fiber.Ctx) error {
	results, err := s.svc.Ingest.IngestDrive(c.UserContext())
	if err != nil {
		return err
	}
	if results == nil {
		results = []domain.IngestResult{}
	}
	return c.JSON(fiber.Map{"ingested": results})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}
	if errs := req.Validate(); len(errs) > 0 {
		return NewValidationError(errs)
	}

	answer, err := s.svc.Chat.Answer(c.UserContext(), req.SessionID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(ChatResponse{
		SessionID: answer.SessionID,
		Answer:    answer.Answer,
		Citations: answer.Citations,
	})
}

func (s *Server) handleClearChat(c *fiber.Ctx) error {
	var req ClearChatRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return ErrBadRequest()
		}
	}
	if req.SessionID == "" {
		req.SessionID = c.Query("session_id")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return NewValidationError(errs)
	}

	n, err := s.svc.Chat.ClearHistory(c.UserContext(), req.SessionID)
	if err != nil {
		return err
	}
	var session any
	if req.SessionID != "" {
		session = req.SessionID
	}
	return c.JSON(fiber.Map{"cleared": n, "session_id": session})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}
	if errs := req.Validate(); len(errs) > 0 {
		return NewValidationError(errs)
	}

	result, err := s.svc.Chat.Search(c.UserContext(), req.Query, req.TopK)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"results": SearchHits(result)})
}

func (s *Server) handleReport(c *fiber.Ctx) error {
	var req ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}
	if errs := req.Validate(); len(errs) > 0 {
		return NewValidationError(errs)
	}

	id, err := s.svc.Reports.Build(c.UserContext(), domain.ReportRequest{
		Sections:       req.Sections,
		IncludeSummary: req.IncludeSummary,
	})
	if err != nil {
		return err
	}
	return c.JSON(ReportResponse{
		ReportID:    id,
		DownloadURL: "/reports/" + id,
	})
}

func (s *Server) handleDownloadReport(c *fiber.Ctx) error {
	path, err := s.svc.Reports.Path(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Download(path, filepath.Base(path))
}
