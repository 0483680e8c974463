package contractor

import (
	"github.com/realpaver-go/ncsp/cert"
	"github.com/realpaver-go/ncsp/domain"
	"github.com/realpaver-go/ncsp/flatfn"
)

// HC4 wraps one flatfn.DagFun as a Contractor: forward interval
// evaluation followed by backward projection along the shared Dag
// (§4.3, §4.5). Deterministic and idempotent in one application.
type HC4 struct {
	Fn flatfn.DagFun
}

// NewHC4 returns the HC4Revise contractor for fn.
func NewHC4(fn flatfn.DagFun) *HC4 { return &HC4{Fn: fn} }

func (h *HC4) Scope() domain.Scope { return h.Fn.Scope }

func (h *HC4) Contract(box domain.IntervalBox) (domain.IntervalBox, cert.Certificate) {
	return h.Fn.Contract(box)
}
