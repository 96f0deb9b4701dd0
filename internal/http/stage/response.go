package stage

import (
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

type stageResponse struct {
	ledger.Stage
	Balance int64 `json:"balance"`
}

func toResponse(st ledger.Stage) stageResponse {
	return stageResponse{Stage: st, Balance: st.Balance()}
}

func toResponseList(stages []ledger.Stage) []stageResponse {
	resp := make([]stageResponse, len(stages))
	for i, st := range stages {
		resp[i] = toResponse(st)
	}

	return resp
}
