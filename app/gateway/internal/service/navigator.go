package service

import (
	"context"
	"errors"
	"strconv"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/schema"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/workflow"
)

// Pipeline runs one full consulting workflow.
type Pipeline interface {
	Run(ctx context.Context, personal schema.PersonalInfo, project schema.ProjectInfo) (*schema.FinalReport, error)
}

// PersonalInfoPayload is the submit form's personal section. Name is accepted
// but intentionally never forwarded to the pipeline.
type PersonalInfoPayload struct {
	Name                   string `json:"name"`
	Gender                 string `json:"gender"`
	Age                    int    `json:"age"`
	MBTI                   string `json:"mbti"`
	PreviousJob            string `json:"previous_job"`
	SelfEmployedExperience bool   `json:"self_employed_experience"`
}

// ProjectInfoPayload is the submit form's project section. Capital arrives as
// a bare integer in won.
type ProjectInfoPayload struct {
	FoodSector string `json:"foodSector"`
	Region     string `json:"region"`
	Capital    int64  `json:"capital"`
}

// SubmitRequest is the body of POST /api/submit.
type SubmitRequest struct {
	PersonalInfo PersonalInfoPayload `json:"personalInfo"`
	ProjectInfo  ProjectInfoPayload  `json:"projectInfo"`
}

// SubmitReply carries the completed report back to the client.
type SubmitReply struct {
	Report *schema.FinalReport `json:"report"`
}

// NavigatorService fronts the workflow over HTTP.
type NavigatorService struct {
	pipeline Pipeline
	log      *log.Helper
}

func NewNavigatorService(pipeline Pipeline, logger log.Logger) *NavigatorService {
	return &NavigatorService{
		pipeline: pipeline,
		log:      log.NewHelper(logger),
	}
}

// Submit converts the form payload into pipeline inputs and runs the workflow
// to completion.
func (s *NavigatorService) Submit(ctx context.Context, req *SubmitRequest) (*SubmitReply, error) {
	personal := schema.PersonalInfo{
		Gender:                 req.PersonalInfo.Gender,
		Age:                    req.PersonalInfo.Age,
		MBTI:                   req.PersonalInfo.MBTI,
		PreviousJob:            req.PersonalInfo.PreviousJob,
		SelfEmployedExperience: req.PersonalInfo.SelfEmployedExperience,
	}
	if req.ProjectInfo.Capital <= 0 {
		return nil, kerrors.BadRequest("INVALID_CAPITAL", "capital must be a positive amount in won")
	}
	project := schema.ProjectInfo{
		FoodSector: req.ProjectInfo.FoodSector,
		Region:     req.ProjectInfo.Region,
		Capital:    FormatWon(req.ProjectInfo.Capital),
	}

	s.log.Infof("submit: region=%s sector=%s capital=%s", project.Region, project.FoodSector, project.Capital)

	rep, err := s.pipeline.Run(ctx, personal, project)
	if err != nil {
		return nil, mapError(err)
	}
	return &SubmitReply{Report: rep}, nil
}

// mapError translates pipeline failures into transport error codes. Input
// contract violations are the caller's fault; everything else is ours.
func mapError(err error) error {
	var ve *schema.ValidationError
	if errors.As(err, &ve) && (ve.Artifact == "PersonalInfo" || ve.Artifact == "ProjectInfo") {
		return kerrors.BadRequest("INVALID_INPUT", ve.Error())
	}
	var eme *workflow.EmptyMarketDataError
	if errors.As(err, &eme) {
		return kerrors.InternalServer("EMPTY_MARKET_DATA", eme.Error())
	}
	return kerrors.InternalServer("WORKFLOW_FAILED", err.Error())
}

// FormatWon renders an amount as a comma-grouped won string, e.g.
// 30000000 -> "30,000,000원".
func FormatWon(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	neg := false
	if digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		out = append([]byte{'-'}, out...)
	}
	return string(out) + "원"
}
