// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyInvalidID         = "validation.invalid_id"

	// Storage
	KeyStorageUnavailable = "storage.unavailable"

	// Materials
	KeyMaterialCreated  = "material.created"
	KeyMaterialUpdated  = "material.updated"
	KeyMaterialDeleted  = "material.deleted"
	KeyMaterialNotFound = "material.not_found"
	KeyMaterialExists   = "material.exists"

	// Garments
	KeyGarmentCreated  = "garment.created"
	KeyGarmentUpdated  = "garment.updated"
	KeyGarmentDeleted  = "garment.deleted"
	KeyGarmentNotFound = "garment.not_found"
	KeyGarmentExists   = "garment.exists"

	// Assignments
	KeyAssignmentCreated  = "assignment.created"
	KeyAssignmentUpdated  = "assignment.updated"
	KeyAssignmentDeleted  = "assignment.deleted"
	KeyAssignmentNotFound = "assignment.not_found"

	// Budgets
	KeyBudgetNoMaterials = "budget.no_materials"

	// File upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidImage  = "file.invalid_image"

	// Rate limiting
	KeyRateLimited = "rate_limit.exceeded"
)
