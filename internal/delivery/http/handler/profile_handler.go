package handler

import (
	"profile-hub/internal/delivery/http/dto"
	"profile-hub/internal/pkg/response"
	"profile-hub/internal/usecase"
	ucuser "profile-hub/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

type updateProfileRequest struct {
	Name         *string `json:"name" form:"name"`
	Bio          *string `json:"bio" form:"bio"`
	Age          *int    `json:"age" form:"age"`
	Gender       *string `json:"gender" form:"gender"`
	Address      *string `json:"address" form:"address"`
	BirthDate    *string `json:"birth_date" form:"birth_date"`
	Phone        *string `json:"phone" form:"phone"`
	Location     *string `json:"location" form:"location"`
	PortfolioURL *string `json:"portfolio_url" form:"portfolio_url"`
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/get-profile", h.GetProfile)
	r.Put("/update-profile", h.UpdateProfile)
}

func (h *ProfileHandler) GetProfile(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	view, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := dto.ProfileResponse{
		UserResponse: dto.NewUserResponse(view.User),
		Educations:   dto.Map(view.Educations, dto.NewEducationResponse),
		Experiences:  dto.Map(view.Experiences, dto.NewExperienceResponse),
		Skills:       dto.Map(view.Skills, dto.NewSkillResponse),
		Hobbies:      dto.Map(view.Hobbies, dto.NewHobbyResponse),
	}
	return response.OK(c, response.MessageOK, res)
}

// UpdateProfile accepts JSON, or multipart with an optional "avatar" file.
func (h *ProfileHandler) UpdateProfile(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	avatar, closer, err := formFile(c, "avatar")
	if err != nil {
		return err
	}
	defer closer.Close()

	usr, err := h.uc.UpdateProfile(c.Context(), userID, ucuser.ProfilePatch{
		Name:         req.Name,
		Bio:          req.Bio,
		Age:          req.Age,
		Gender:       req.Gender,
		Address:      req.Address,
		BirthDate:    req.BirthDate,
		Phone:        req.Phone,
		Location:     req.Location,
		PortfolioURL: req.PortfolioURL,
	}, avatar)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, "Profile updated", dto.NewUserResponse(usr))
}
