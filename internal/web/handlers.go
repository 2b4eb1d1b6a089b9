package web

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alnah/call-summary/internal/log"
	"github.com/alnah/call-summary/internal/pipeline"
	"github.com/alnah/call-summary/internal/storage"
)

// processForm is the multipart body of POST /process.
type processForm struct {
	Mode string                `form:"mode" binding:"required,oneof=audio text"`
	File *multipart.FileHeader `form:"file" binding:"required"`
}

func (s *Server) handleIndex(c *gin.Context) {
	kind, err := pipeline.ParseKind(c.DefaultQuery("mode", "audio"))
	if err != nil {
		kind = pipeline.Audio
	}
	c.HTML(http.StatusOK, indexTemplate, s.newPage(kind))
}

func (s *Server) handleProcess(c *gin.Context) {
	if c.Request.ContentLength > s.maxUpload+multipartOverhead {
		// The body is not read, so the mode comes from the form action's
		// query string. Audio when absent.
		kind, err := pipeline.ParseKind(c.Query("mode"))
		if err != nil {
			kind = pipeline.Audio
		}
		s.renderError(c, kind, nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxUpload))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+multipartOverhead)

	var form processForm
	if err := c.ShouldBind(&form); err != nil {
		kind, _ := pipeline.ParseKind(c.PostForm("mode"))
		s.renderError(c, kind, nil, err)
		return
	}

	// Validated by the binding.
	kind, _ := pipeline.ParseKind(form.Mode)

	if form.File.Size > s.maxUpload {
		s.renderError(c, kind, nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, form.File.Filename, s.maxUpload))
		return
	}
	if err := kind.Accepts(form.File.Filename); err != nil {
		s.renderError(c, kind, nil, err)
		return
	}

	f, err := form.File.Open()
	if err != nil {
		s.renderError(c, kind, nil, fmt.Errorf("cannot read upload: %w", err))
		return
	}
	defer func() { _ = f.Close() }()

	res, err := s.pipeline.Process(c.Request.Context(), pipeline.Upload{
		Name:    form.File.Filename,
		Kind:    kind,
		Content: f,
	})
	if err != nil {
		s.renderError(c, kind, &res, err)
		return
	}

	p := s.newPage(kind)
	p.Result = newResultView(res)
	c.HTML(http.StatusOK, indexTemplate, p)
}

// renderError re-renders the form with err and any partial result.
func (s *Server) renderError(c *gin.Context, kind pipeline.Kind, res *pipeline.Result, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	log.Warn().Err(err).Int("status", status).Str("request_id", c.GetString(log.ContextKeyRequestID)).Msg("process failed")

	p := s.newPage(kind)
	p.Error = messageFor(err)
	if res != nil {
		p.Result = newResultView(*res)
	}
	c.HTML(status, indexTemplate, p)
}

func (s *Server) handleDownload(c *gin.Context) {
	name := c.Param("name")
	if !strings.EqualFold(filepath.Ext(name), storage.TranscriptExt) {
		c.String(http.StatusBadRequest, "only transcript files can be downloaded")
		return
	}

	f, err := s.pipeline.Store().Open(name)
	if err != nil {
		c.String(statusFor(err), "%s", messageFor(err))
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		c.String(http.StatusInternalServerError, "cannot stat %s", name)
		return
	}

	c.DataFromReader(http.StatusOK, info.Size(), "text/plain; charset=utf-8", f, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": name}),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
