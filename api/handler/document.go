package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fyerfyer/doc-chatbot/api/middleware"
	"github.com/fyerfyer/doc-chatbot/api/model"
	"github.com/fyerfyer/doc-chatbot/internal/models"
	"github.com/fyerfyer/doc-chatbot/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipart表单头部等开销
const formOverhead int64 = 64 << 10

// 上传相关的错误消息
const (
	MsgNoFilePart        = "No file part"
	MsgNoSelectedFile    = "No selected file"
	MsgFileTypeNotAllow  = "File type not allowed"
	MsgFileTooLarge      = "File too large"
	MsgExtractionFailed  = "Failed to extract text from PDF"
	MsgUploadSucceeded   = "File uploaded and processed successfully"
	MsgDocumentNotFound  = "Document not found"
	MsgInvalidParameters = "Invalid request parameters"
)

// DocumentHandler 处理文档相关的API请求
type DocumentHandler struct {
	documentService DocumentService // 文档服务
	logger          *logrus.Logger  // 日志记录器
}

// NewDocumentHandler 创建新的文档处理器
func NewDocumentHandler(documentService DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          middleware.GetLogger(),
	}
}

// UploadDocument 处理文档上传请求
// POST /api/upload
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.documentService.MaxFileSize()+formOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		switch {
		case isBodyTooLarge(err):
			middleware.HandleError(c, middleware.NewPayloadTooLargeError(MsgFileTooLarge))
		case errors.Is(err, http.ErrMissingFile) && hasEmptyFileField(c):
			middleware.HandleError(c, middleware.NewValidationError(MsgNoSelectedFile))
		default:
			middleware.HandleError(c, middleware.NewValidationError(MsgNoFilePart, err.Error()))
		}
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(c.Request.Context(), sessionID, header.Filename, header.Size, file)
	if err != nil {
		h.handleUploadError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"file_id":    doc.ID,
		"file_name":  doc.FileName,
		"session_id": sessionID,
	}).Info("Document uploaded")

	resp := model.NewSuccessResponse(model.DocumentUploadResponse{
		FileID:    doc.ID,
		FileName:  doc.FileName,
		Status:    string(doc.Status),
		SessionID: sessionID,
		Sentences: doc.SentenceCount,
		Keywords:  doc.KeywordCount,
		Entities:  doc.EntityCount,
	})
	resp.Message = MsgUploadSucceeded
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentHandler) handleUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoFile):
		middleware.HandleError(c, middleware.NewValidationError(MsgNoFilePart))
	case errors.Is(err, services.ErrEmptyFileName):
		middleware.HandleError(c, middleware.NewValidationError(MsgNoSelectedFile))
	case errors.Is(err, services.ErrUnsupportedFileType):
		middleware.HandleError(c, middleware.NewValidationError(MsgFileTypeNotAllow, err.Error()))
	case errors.Is(err, services.ErrFileTooLarge), isBodyTooLarge(err):
		middleware.HandleError(c, middleware.NewPayloadTooLargeError(MsgFileTooLarge, err.Error()))
	case errors.Is(err, services.ErrTextExtraction):
		middleware.HandleError(c, middleware.NewUnprocessableError(MsgExtractionFailed, err.Error()))
	default:
		middleware.HandleError(c, middleware.NewInternalError("Failed to process document", err.Error()))
	}
}

// GetDocument 获取单个上传记录
// GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	var req model.DocumentRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError(MsgInvalidParameters, err.Error()))
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), middleware.GetSessionID(c), req.ID)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			middleware.HandleError(c, middleware.NewNotFoundError(MsgDocumentNotFound))
			return
		}
		middleware.HandleError(c, middleware.NewInternalError("Failed to get document", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(toDocumentInfo(doc)))
}

// ListDocuments 列出当前会话的上传记录
// GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var req model.DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError(MsgInvalidParameters, err.Error()))
		return
	}

	docs, total, err := h.documentService.List(
		c.Request.Context(),
		middleware.GetSessionID(c),
		req.Offset(),
		req.GetPageSize(),
		req.Status,
	)
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("Failed to list documents", err.Error()))
		return
	}

	infos := make([]model.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, toDocumentInfo(doc))
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentListResponse{
		Total:     total,
		Page:      req.GetPage(),
		PageSize:  req.GetPageSize(),
		Documents: infos,
	}))
}

// ClearDocument 清除当前会话的文档
// DELETE /api/session/document
func (h *DocumentHandler) ClearDocument(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if err := h.documentService.ClearSession(c.Request.Context(), sessionID); err != nil {
		middleware.HandleError(c, middleware.NewInternalError("Failed to clear session document", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.ClearDocumentResponse{
		Success:   true,
		SessionID: sessionID,
	}))
}

func toDocumentInfo(doc *models.Document) model.DocumentInfo {
	return model.DocumentInfo{
		FileID:      doc.ID,
		FileName:    doc.FileName,
		FileType:    doc.FileType,
		FileSize:    doc.FileSize,
		Status:      string(doc.Status),
		Error:       doc.Error,
		Sentences:   doc.SentenceCount,
		Keywords:    doc.KeywordList(),
		Entities:    doc.EntityList(),
		UploadTime:  doc.UploadedAt,
		ProcessedAt: doc.ProcessedAt,
	}
}

// isBodyTooLarge 请求体是否超过MaxBytesReader的限制
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// hasEmptyFileField 表单中有file字段但没有选择文件
func hasEmptyFileField(c *gin.Context) bool {
	form := c.Request.MultipartForm
	if form == nil {
		return false
	}
	if _, ok := form.Value["file"]; ok {
		return true
	}
	return false
}
