package handler

import (
	"io"

	"profile-hub/internal/delivery/http/dto"
	"profile-hub/internal/domain/profile"
	"profile-hub/internal/infrastructure/media"
	"profile-hub/internal/pkg/response"
	"profile-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// RecordHandler serves the six endpoints of one profile sub-resource. Req is
// the bound request body and is converted to the usecase input by toInput.
type RecordHandler[T profile.Record, I usecase.Input[T], Req any] struct {
	uc         usecase.RecordUsecase[T, I]
	singular   string
	plural     string
	upload     bool
	toInput    func(Req) I
	toResponse func(T) any
}

func (h *RecordHandler[T, I, Req]) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/create-"+h.singular, h.Create)
	r.Get("/get-all-"+h.plural, h.List)
	r.Get("/get-single-"+h.singular+"/:id", h.Get)
	r.Put("/update-"+h.singular+"/:id", h.Update)
	r.Delete("/delete-single-"+h.singular+"/:id", h.Delete)
	r.Delete("/delete-all-"+h.plural, h.DeleteAll)
}

func (h *RecordHandler[T, I, Req]) List(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.Map(items, h.toResponse))
}

func (h *RecordHandler[T, I, Req]) Get(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	rec, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, h.toResponse(rec))
}

func (h *RecordHandler[T, I, Req]) Create(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req Req
	if err := bindBody(c, &req); err != nil {
		return err
	}
	cert, closer, err := h.certificate(c)
	if err != nil {
		return err
	}
	defer closer.Close()

	rec, err := h.uc.Create(c.Context(), userID, h.toInput(req), cert)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, h.toResponse(rec))
}

func (h *RecordHandler[T, I, Req]) Update(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req Req
	if err := bindBody(c, &req); err != nil {
		return err
	}
	cert, closer, err := h.certificate(c)
	if err != nil {
		return err
	}
	defer closer.Close()

	rec, err := h.uc.Update(c.Context(), userID, id, h.toInput(req), cert)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, h.toResponse(rec))
}

func (h *RecordHandler[T, I, Req]) Delete(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, "Deleted", nil)
}

func (h *RecordHandler[T, I, Req]) DeleteAll(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	n, err := h.uc.DeleteAll(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, "Deleted", dto.DeletedResponse{Deleted: n})
}

func (h *RecordHandler[T, I, Req]) certificate(c fiber.Ctx) (*media.File, io.Closer, error) {
	if !h.upload {
		return nil, io.NopCloser(nil), nil
	}
	return formFile(c, "certificate")
}

type educationRequest struct {
	Institute    *string `json:"institute" form:"institute"`
	Degree       *string `json:"degree" form:"degree"`
	FieldOfStudy *string `json:"field_of_study" form:"field_of_study"`
	StartDate    *string `json:"start_date" form:"start_date"`
	EndDate      *string `json:"end_date" form:"end_date"`
}

type experienceRequest struct {
	Company     *string `json:"company" form:"company"`
	Role        *string `json:"role" form:"role"`
	StartDate   *string `json:"start_date" form:"start_date"`
	EndDate     *string `json:"end_date" form:"end_date"`
	Description *string `json:"description" form:"description"`
}

type skillRequest struct {
	Name  *string `json:"name" form:"name"`
	Level *string `json:"level" form:"level"`
}

type hobbyRequest struct {
	Name *string `json:"name" form:"name"`
}

func NewEducationHandler(uc usecase.RecordUsecase[profile.Education, usecase.EducationInput]) *RecordHandler[profile.Education, usecase.EducationInput, educationRequest] {
	return &RecordHandler[profile.Education, usecase.EducationInput, educationRequest]{
		uc:       uc,
		singular: "education",
		plural:   "educations",
		upload:   true,
		toInput: func(r educationRequest) usecase.EducationInput {
			return usecase.EducationInput(r)
		},
		toResponse: func(e profile.Education) any { return dto.NewEducationResponse(e) },
	}
}

func NewExperienceHandler(uc usecase.RecordUsecase[profile.Experience, usecase.ExperienceInput]) *RecordHandler[profile.Experience, usecase.ExperienceInput, experienceRequest] {
	return &RecordHandler[profile.Experience, usecase.ExperienceInput, experienceRequest]{
		uc:       uc,
		singular: "experience",
		plural:   "experiences",
		upload:   true,
		toInput: func(r experienceRequest) usecase.ExperienceInput {
			return usecase.ExperienceInput(r)
		},
		toResponse: func(e profile.Experience) any { return dto.NewExperienceResponse(e) },
	}
}

func NewSkillHandler(uc usecase.RecordUsecase[profile.Skill, usecase.SkillInput]) *RecordHandler[profile.Skill, usecase.SkillInput, skillRequest] {
	return &RecordHandler[profile.Skill, usecase.SkillInput, skillRequest]{
		uc:       uc,
		singular: "skill",
		plural:   "skills",
		upload:   true,
		toInput: func(r skillRequest) usecase.SkillInput {
			return usecase.SkillInput(r)
		},
		toResponse: func(s profile.Skill) any { return dto.NewSkillResponse(s) },
	}
}

func NewHobbyHandler(uc usecase.RecordUsecase[profile.Hobby, usecase.HobbyInput]) *RecordHandler[profile.Hobby, usecase.HobbyInput, hobbyRequest] {
	return &RecordHandler[profile.Hobby, usecase.HobbyInput, hobbyRequest]{
		uc:       uc,
		singular: "hobby",
		plural:   "hobbies",
		toInput: func(r hobbyRequest) usecase.HobbyInput {
			return usecase.HobbyInput(r)
		},
		toResponse: func(h profile.Hobby) any { return dto.NewHobbyResponse(h) },
	}
}
