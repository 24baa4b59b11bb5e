package dto

// CreateServiceDTO is parsed from the "data" multipart field (JSON)
type CreateServiceDTO struct {
	Name        string `json:"name" binding:"required,min=3"`
	Slug        string `json:"slug"` // auto-generated from Name if empty
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	SortOrder   int    `json:"sortOrder"`
}

// UpdateServiceDTO — all fields are optional pointers
type UpdateServiceDTO struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
	SortOrder   *int    `json:"sortOrder"`
}

type CreateTestimonialDTO struct {
	Author   string `json:"author" binding:"required"`
	Company  string `json:"company"`
	Quote    string `json:"quote" binding:"required,min=5,max=2000"`
	IsActive bool   `json:"isActive"`
}

type UpdateTestimonialDTO struct {
	Author   *string `json:"author"`
	Company  *string `json:"company"`
	Quote    *string `json:"quote"`
	IsActive *bool   `json:"isActive"`
}

type UpdateSettingsDTO struct {
	CompanyName *string `json:"companyName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}
