package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/model"
)

type stubProducer struct {
	name    string
	enabled bool
	leads   []*model.Lead
	err     error
	called  bool
}

func (s *stubProducer) Name() string  { return s.name }
func (s *stubProducer) Enabled() bool { return s.enabled }

func (s *stubProducer) Discover(context.Context) ([]*model.Lead, error) {
	s.called = true
	return s.leads, s.err
}

func leadNamed(id string) *model.Lead {
	return model.NewLead(id, model.Company{Name: id, Industry: model.IndustryBanking}, "test")
}

func TestFanOutMergesProducers(t *testing.T) {
	a := &stubProducer{name: "a", enabled: true, leads: []*model.Lead{leadNamed("a1"), leadNamed("a2")}}
	b := &stubProducer{name: "b", enabled: true, leads: []*model.Lead{leadNamed("b1")}}

	leads := FanOut(context.Background(), []Producer{a, b})
	assert.Len(t, leads, 3)
}

func TestFanOutIsolatesFailure(t *testing.T) {
	ok := &stubProducer{name: "ok", enabled: true, leads: []*model.Lead{leadNamed("x")}}
	bad := &stubProducer{name: "bad", enabled: true, err: errors.New("upstream down")}

	leads := FanOut(context.Background(), []Producer{ok, bad})
	assert.Len(t, leads, 1, "failing producer must not cost the others their results")
	assert.Equal(t, "x", leads[0].ID)
}

func TestFanOutAllFailedYieldsEmpty(t *testing.T) {
	bad := &stubProducer{name: "bad", enabled: true, err: errors.New("down")}
	leads := FanOut(context.Background(), []Producer{bad})
	assert.Empty(t, leads)
}

func TestFanOutSkipsDisabled(t *testing.T) {
	off := &stubProducer{name: "off", enabled: false, leads: []*model.Lead{leadNamed("x")}}
	leads := FanOut(context.Background(), []Producer{off})
	assert.Empty(t, leads)
	assert.False(t, off.called)
}
