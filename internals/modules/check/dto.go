package check

type RunChecksRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,max=500,dive,required"`
}
