package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"trulearn-be/internal/dto"
	"trulearn-be/internal/pkg/apperror"
	"trulearn-be/internal/pkg/serverutils"
	"trulearn-be/internal/service"
)

type IStudyController interface {
	RegisterRoutes(r fiber.Router)
	UploadReference(ctx *fiber.Ctx) error
	GenerateQuestions(ctx *fiber.Ctx) error
	GenerateVariation(ctx *fiber.Ctx) error
	SubmitAnswer(ctx *fiber.Ctx) error
	DetectAnswer(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type studyController struct {
	studyService service.IStudyService
}

func NewStudyController(studyService service.IStudyService) IStudyController {
	return &studyController{
		studyService: studyService,
	}
}

func (c *studyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/study/v1")
	h.Post("upload-reference", c.UploadReference)
	h.Post("questions/generate", c.GenerateQuestions)
	h.Post("questions/variation", c.GenerateVariation)
	h.Post("answers", c.SubmitAnswer)
	h.Post("answers/:id/detect", c.DetectAnswer)
	h.Get("health", c.Health)
}

func (c *studyController) UploadReference(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("pdf")
	if err != nil {
		return apperror.NewValidationError("pdf", "no file selected")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperror.NewValidationError("pdf", "unable to read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apperror.NewValidationError("pdf", "unable to read uploaded file")
	}

	res, err := c.studyService.UploadReference(ctx.Context(), fileHeader.Filename, data)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload reference", res))
}

func (c *studyController) GenerateQuestions(ctx *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.studyService.GenerateBatch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate questions", res))
}

func (c *studyController) GenerateVariation(ctx *fiber.Ctx) error {
	var req dto.GenerateVariationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.studyService.GenerateVariation(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate variation", res))
}

func (c *studyController) SubmitAnswer(ctx *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.studyService.SubmitAnswer(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit answer", res))
}

func (c *studyController) DetectAnswer(ctx *fiber.Ctx) error {
	answerID := ctx.Params("id")

	var req dto.DetectAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.studyService.DetectAnswer(ctx.Context(), answerID, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success detect answer", res))
}

func (c *studyController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", dto.HealthResponse{
		Status:  "healthy",
		Service: "TruLearn API",
	}))
}
