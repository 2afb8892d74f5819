package http

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"designlift/internal/assets"
	"designlift/internal/config"
	"designlift/internal/fetcher"
	"designlift/internal/services"
	"designlift/internal/store"
)

const defaultExtractTimeout = 2 * time.Minute

// extractHandler runs one extraction synchronously and returns the full
// result.
func extractHandler(c *fiber.Ctx) error {
	var reqBody ExtractRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST_INVALID_JSON",
			Error:   "Bad request, malformed JSON",
		})
	}
	if reqBody.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "Missing required field 'url'",
		})
	}

	cfg := c.Locals("config").(*config.Config)
	svc, ok := c.Locals("extraction").(services.ExtractionService)
	if !ok || svc == nil {
		return serviceUnavailable(c, "extraction service is not configured")
	}

	timeout := defaultExtractTimeout
	if cfg.Server.ExtractTimeoutMs > 0 {
		timeout = time.Duration(cfg.Server.ExtractTimeoutMs) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req := &services.ExtractRequest{
		URL:       reqBody.URL,
		Prompt:    reqBody.Prompt,
		ProjectID: reqBody.ProjectID,
		Tier:      reqBody.Tier,
		Overrides: reqBody.Overrides,
		Headers:   reqBody.Headers,
	}
	if reqBody.Timeout != nil && *reqBody.Timeout > 0 {
		req.TimeoutMs = *reqBody.Timeout
	}
	if reqBody.Location != nil {
		req.Languages = reqBody.Location.Languages
	}

	res, err := svc.Extract(ctx, req)
	if err != nil {
		var fe *fetcher.FetchError
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Success: false,
				Code:    "BAD_REQUEST",
				Error:   err.Error(),
			})
		case errors.As(err, &fe):
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Success: false,
				Code:    "FETCH_FAILED",
				Error:   "Could not access this URL",
				Details: FetchFailureDetails{URL: fe.URL, Status: fe.Status, Reason: fe.Reason},
			})
		default:
			if logger, ok := c.Locals("logger").(*slog.Logger); ok {
				logger.Error("extraction failed", "request_id", c.Locals("request_id"), "error", err)
			}
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Success: false,
				Code:    "INTERNAL_ERROR",
				Error:   err.Error(),
			})
		}
	}

	c.Locals("tier", string(res.Config.Tier))
	return c.Status(fiber.StatusOK).JSON(ExtractResponse{Success: true, Data: res})
}

// tierHandler previews the fidelity tier and facet config for a prompt.
func tierHandler(c *fiber.Ctx) error {
	var reqBody TierRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST_INVALID_JSON",
			Error:   "Bad request, malformed JSON",
		})
	}

	svc, ok := c.Locals("extraction").(services.ExtractionService)
	if !ok || svc == nil {
		return serviceUnavailable(c, "extraction service is not configured")
	}

	preview, err := svc.PreviewTier(reqBody.Prompt, reqBody.Tier, reqBody.Overrides)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   err.Error(),
		})
	}
	return c.JSON(TierResponse{Success: true, Data: preview})
}

func extractionStatusHandler(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "Invalid extraction id",
		})
	}

	records, ok := c.Locals("records").(ExtractionRecords)
	if !ok {
		return notFound(c, "Extraction not found")
	}

	rec, err := records.GetExtraction(c.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Extraction not found")
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    "INTERNAL_ERROR",
			Error:   err.Error(),
		})
	}

	out := ExtractionRecord{
		ID:        rec.ID.String(),
		URL:       rec.URL,
		ProjectID: rec.ProjectID,
		Tier:      rec.Tier,
		Status:    rec.Status,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Error.Valid {
		out.Error = rec.Error.String
	}
	if rec.Output.Valid {
		out.Result = rec.Output.RawMessage
	}
	return c.JSON(ExtractionRecordResponse{Success: true, Data: out})
}

func listProjectAssetsHandler(c *fiber.Ctx, pipe ProjectAssets, pid string) error {
	list, err := pipe.ListProjectAssets(pid)
	if err != nil {
		return assetError(c, err)
	}
	return c.JSON(AssetListResponse{Success: true, Data: list})
}

func deleteProjectAssetsHandler(c *fiber.Ctx, pipe ProjectAssets, pid string) error {
	if err := pipe.CleanupProject(pid); err != nil {
		return assetError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// withProjectAssets validates the :projectId param and resolves the asset
// pipeline before calling fn.
func withProjectAssets(fn func(c *fiber.Ctx, pipe ProjectAssets, pid string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pid := c.Params("projectId")
		if !assets.ValidProjectID(pid) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Success: false,
				Code:    "BAD_REQUEST",
				Error:   "Invalid project id",
			})
		}
		pipe, ok := c.Locals("assets").(ProjectAssets)
		if !ok {
			return serviceUnavailable(c, "asset storage is disabled")
		}
		return fn(c, pipe, pid)
	}
}

func assetError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL_ERROR"
	if errors.Is(err, assets.ErrInvalidProject) {
		status, code = fiber.StatusBadRequest, "BAD_REQUEST"
	}
	return c.Status(status).JSON(ErrorResponse{Success: false, Code: code, Error: err.Error()})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Success: false,
		Code:    "NOT_FOUND",
		Error:   msg,
	})
}

func serviceUnavailable(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
		Success: false,
		Code:    "SERVICE_UNAVAILABLE",
		Error:   msg,
	})
}
