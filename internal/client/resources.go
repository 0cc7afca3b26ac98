package client

import (
	"context"
	"net/http"

	"profile-hub/internal/delivery/http/dto"

	"github.com/google/uuid"
)

// Resource is one profile collection. R is the decoded record.
type Resource[R any] struct {
	c        *Client
	singular string
	plural   string
}

func (c *Client) Skills() Resource[dto.SkillResponse] {
	return Resource[dto.SkillResponse]{c: c, singular: "skill", plural: "skills"}
}

func (c *Client) Educations() Resource[dto.EducationResponse] {
	return Resource[dto.EducationResponse]{c: c, singular: "education", plural: "educations"}
}

func (c *Client) Experiences() Resource[dto.ExperienceResponse] {
	return Resource[dto.ExperienceResponse]{c: c, singular: "experience", plural: "experiences"}
}

func (c *Client) Hobbies() Resource[dto.HobbyResponse] {
	return Resource[dto.HobbyResponse]{c: c, singular: "hobby", plural: "hobbies"}
}

func (r Resource[R]) List(ctx context.Context) ([]R, error) {
	out := make([]R, 0)
	err := r.c.call(ctx, http.MethodGet, "/get-all-"+r.plural, nil, &out)
	return out, err
}

func (r Resource[R]) Get(ctx context.Context, id uuid.UUID) (R, error) {
	var out R
	err := r.c.call(ctx, http.MethodGet, "/get-single-"+r.singular+"/"+id.String(), nil, &out)
	return out, err
}

// Create sends fields as JSON, or as a multipart form when a certificate is attached.
func (r Resource[R]) Create(ctx context.Context, fields Fields, certificate *Upload) (R, error) {
	var out R
	err := r.c.call(ctx, http.MethodPost, "/create-"+r.singular, fieldsBody(fields, "certificate", certificate), &out)
	return out, err
}

func (r Resource[R]) Update(ctx context.Context, id uuid.UUID, fields Fields, certificate *Upload) (R, error) {
	var out R
	err := r.c.call(ctx, http.MethodPut, "/update-"+r.singular+"/"+id.String(), fieldsBody(fields, "certificate", certificate), &out)
	return out, err
}

func (r Resource[R]) Delete(ctx context.Context, id uuid.UUID) error {
	return r.c.call(ctx, http.MethodDelete, "/delete-single-"+r.singular+"/"+id.String(), nil, nil)
}

func (r Resource[R]) DeleteAll(ctx context.Context) (int64, error) {
	var out dto.DeletedResponse
	err := r.c.call(ctx, http.MethodDelete, "/delete-all-"+r.plural, nil, &out)
	return out.Deleted, err
}
