package pipeline

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/skufinskiy/itnelep-tools/pkg/fio"
	"github.com/skufinskiy/itnelep-tools/pkg/history"
	"github.com/skufinskiy/itnelep-tools/pkg/lexicon"
	"github.com/skufinskiy/itnelep-tools/pkg/morph"
	"github.com/skufinskiy/itnelep-tools/pkg/position"
	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

const notes = `Генеральный директор ИВАНОВ ПЁТР СЕРГЕЕВИЧ
Заместитель директора Петрова Анна Викторовна, доб. 12
Иванов Олег Ильич, снабжение`

var labels = []string{
	"Иванов Пётр Сергеевич\nПоследний подкреп 12.03.2024 10:15",
	"Петрова А.В.",
	"Иванов",
	"Кузнецов К.К.",
}

func newRussianEngine(t *testing.T) (*Engine, *history.Store) {
	t.Helper()
	reg := lexicon.NewRegistry("", nil)
	require.NoError(t, reg.Load())

	hist, err := history.Open(filepath.Join(t.TempDir(), history.DefaultFile), nil)
	require.NoError(t, err)

	abbr, err := position.Builtin("ru")
	require.NoError(t, err)

	e, err := New(Deps{Extractor: fio.NewExtractor(nil), Abbrev: abbr, History: hist})
	require.NoError(t, err)
	require.NoError(t, e.ApplyLexicon(reg, morph.BackendRules))
	return e, hist
}

func TestNewRequiresComponents(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)

	abbr, err := position.Builtin("en")
	require.NoError(t, err)
	e, err := New(Deps{Extractor: fio.NewExtractor(nil), Abbrev: abbr})
	require.NoError(t, err)
	assert.False(t, e.InflectionAvailable())
}

func TestLoadResolvesLeaders(t *testing.T) {
	e, _ := newRussianEngine(t)
	s := e.Load(notes, labels)

	cands := s.Candidates()
	require.Len(t, cands, 3)
	assert.Equal(t, "Иванов Пётр Сергеевич", cands[0].DisplayName)
	assert.Equal(t, "Петрова Анна Викторовна", cands[1].DisplayName)
	assert.Equal(t, "Иванов Олег Ильич", cands[2].DisplayName)

	ls := s.Leaders()
	require.Len(t, ls, 4)
	require.NotNil(t, ls[0].Person)
	assert.Equal(t, "Иванов Пётр Сергеевич", ls[0].Person.DisplayName)
	require.NotNil(t, ls[0].LastBackup)
	assert.Equal(t, 2024, ls[0].LastBackup.Year())

	require.NotNil(t, ls[1].Person)
	assert.Equal(t, "Петрова Анна Викторовна", ls[1].Person.DisplayName)
	assert.Equal(t, 63, ls[1].Match.Score)

	assert.Nil(t, ls[2].Person)
	assert.Equal(t, fio.StatusAmbiguous, ls[2].Match.Status)
	assert.Nil(t, ls[3].Person)
	assert.Equal(t, fio.StatusBelowThreshold, ls[3].Match.Status)
}

func TestComposeRussianDative(t *testing.T) {
	e, hist := newRussianEngine(t)
	hist.Set("Иванов Пётр Сергеевич", "Генеральный директор")

	s := e.Load(notes, labels)
	require.NoError(t, s.SetPosition(1, "Заместитель директора"))

	res, err := s.Compose(Options{Organization: "ооо ромашка", Case: morph.Dative, Format: textnorm.FormatShort})
	require.NoError(t, err)
	require.Len(t, res, 4)

	r := res[0]
	assert.Equal(t, StatusResolvedWithPosition, r.Status)
	assert.Equal(t, SourceHistory, r.PositionSource)
	assert.Equal(t, "Иванов Пётр Сергеевич — Генеральный директор", r.Title)
	assert.Equal(t, "Иванову П.С.", r.Name)
	assert.Equal(t, "гендиректор", r.Position)
	require.Len(t, r.Greetings, 5)
	assert.Equal(t, "— Это Иванову П.С., гендиректор ООО Ромашка. Перезвоните мне, я по делу", r.Greetings[0])
	assert.False(t, r.Degraded)

	r = res[1]
	assert.Equal(t, StatusResolvedWithPosition, r.Status)
	assert.Equal(t, SourceOverride, r.PositionSource)
	assert.Equal(t, "Петровой А.В.", r.Name)
	assert.Equal(t, "зам. гендиректора", r.Position)

	for _, r := range res[2:] {
		assert.Equal(t, StatusUnresolved, r.Status)
		assert.Empty(t, r.Greetings)
	}

	// the override was persisted
	reopened, err := history.Open(hist.Path(), nil)
	require.NoError(t, err)
	pos, ok := reopened.Get("Петрова Анна Викторовна")
	require.True(t, ok)
	assert.Equal(t, "Заместитель директора", pos)
}

func TestManualPick(t *testing.T) {
	e, _ := newRussianEngine(t)
	s := e.Load(notes, labels)

	require.NoError(t, s.Pick(2, "иванов олег ильич"))
	assert.True(t, s.Leaders()[2].Picked)

	c, err := s.PickQuery(3, "олег")
	require.NoError(t, err)
	assert.Equal(t, "Иванов Олег Ильич", c.DisplayName)

	res, err := s.Compose(Options{Organization: "ООО Ромашка", Only: []int{2}})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, StatusResolvedNoPosition, res[0].Status)
	assert.Equal(t, "Иванов Олег Ильич", res[0].Title)
	assert.Equal(t, "— Это Иванов Олег Ильич ООО Ромашка. Перезвоните мне, я по делу", res[0].Greetings[0])

	assert.ErrorIs(t, s.Pick(2, "Сидоров Сидор"), ErrUnknownCandidate)
	assert.ErrorIs(t, s.Pick(9, "Иванов Олег Ильич"), ErrLeaderIndex)
	_, err = s.PickQuery(0, "zzz")
	assert.ErrorIs(t, err, ErrUnknownCandidate)
}

func TestSetPositionRequiresPerson(t *testing.T) {
	e, _ := newRussianEngine(t)
	s := e.Load(notes, labels)

	err := s.SetPosition(3, "Директор")
	assert.True(t, errors.Is(err, ErrNotResolved))
	assert.ErrorIs(t, s.SetPosition(-1, "Директор"), ErrLeaderIndex)
}

func TestComposeRequiresOrganization(t *testing.T) {
	e, _ := newRussianEngine(t)
	s := e.Load(notes, labels)

	res, err := s.Compose(Options{Organization: "  "})
	assert.ErrorIs(t, err, ErrNoOrganization)
	assert.Nil(t, res)

	_, err = s.Compose(Options{Organization: "ООО Ромашка", Only: []int{7}})
	assert.ErrorIs(t, err, ErrLeaderIndex)
}

func TestContext(t *testing.T) {
	e, _ := newRussianEngine(t)
	s := e.Load(notes, labels)

	ctx := s.Context(1)
	require.Len(t, ctx, 3)
	assert.Equal(t, 0, ctx[0].N)
	assert.Nil(t, s.Context(3))
}

func TestEmptyNotes(t *testing.T) {
	e, _ := newRussianEngine(t)
	s := e.Load("", labels)

	assert.Empty(t, s.Candidates())
	for _, l := range s.Leaders() {
		assert.Nil(t, l.Person)
		assert.Equal(t, fio.StatusNoCandidates, l.Match.Status)
	}
	res, err := s.Compose(Options{Organization: "ООО Ромашка"})
	require.NoError(t, err)
	for _, r := range res {
		assert.Equal(t, StatusUnresolved, r.Status)
	}
	assert.Empty(t, CopyAll(res))
}

func TestLatinWithoutBackend(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	abbr, err := position.Builtin("en")
	require.NoError(t, err)
	e, err := New(Deps{
		Extractor: fio.NewExtractor([]string{"directed", "by"}),
		Abbrev:    abbr,
		Logger:    zap.New(core),
	})
	require.NoError(t, err)

	s := e.Load("Directed by Ivanov Petr Sergeevich", []string{"Ivanov P.S."})
	require.NoError(t, s.SetPosition(0, "Deputy General Director"))

	res, err := s.Compose(Options{Organization: "Acme LLC", Case: morph.Dative, Format: textnorm.FormatShort})
	require.NoError(t, err)
	require.Len(t, res, 1)

	r := res[0]
	assert.Equal(t, "Ivanov P.S.", r.Name)
	assert.Equal(t, "deputy CEO", r.Position)
	assert.True(t, r.Degraded)
	assert.Equal(t, 1, logs.FilterMessageSnippet("inflection backend unavailable").Len())
	for _, g := range r.Greetings {
		assert.Equal(t, 1, strings.Count(g, "Ivanov P.S."))
		assert.Equal(t, 1, strings.Count(g, "deputy CEO"))
		assert.Equal(t, 1, strings.Count(g, "Acme LLC"))
	}

	all := CopyAll(res)
	assert.True(t, strings.HasPrefix(all, "Ivanov Petr Sergeevich — Deputy General Director\n"))
}

func TestFailedComposeLeavesHistoryUntouched(t *testing.T) {
	e, hist := newRussianEngine(t)
	s := e.Load(notes, labels)
	require.NoError(t, s.SetPosition(0, "Врио директора"))
	require.NoError(t, s.SetPosition(1, "Главный бухгалтер"))

	_, err := s.Compose(Options{Organization: ""})
	require.ErrorIs(t, err, ErrNoOrganization)
	_, err = s.Compose(Options{Organization: "ООО Ромашка", Only: []int{9}})
	require.ErrorIs(t, err, ErrLeaderIndex)

	reopened, err := history.Open(hist.Path(), nil)
	require.NoError(t, err)
	assert.Zero(t, reopened.Len())
	assert.Zero(t, hist.Len())

	// the overrides still apply and are saved once composing succeeds
	res, err := s.Compose(Options{Organization: "ООО Ромашка", Only: []int{0}})
	require.NoError(t, err)
	assert.Equal(t, SourceOverride, res[0].PositionSource)
	reopened, err = history.Open(hist.Path(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())
}

func TestUseLabel(t *testing.T) {
	e, hist := newRussianEngine(t)
	s := e.Load("Иванов Пётр Сергеевич", []string{"КУЗНЕЦОВ ОЛЕГ ИЛЬИЧ", "12.03.2024 10:15"})

	require.Nil(t, s.Leaders()[0].Person)
	assert.ErrorIs(t, s.SetPosition(0, "Директор"), ErrNotResolved)

	require.NoError(t, s.Assign(0, LabelPick))
	l := s.Leaders()[0]
	require.NotNil(t, l.Person)
	assert.True(t, l.FromLabel)
	assert.Equal(t, "Кузнецов Олег Ильич", l.Person.DisplayName)
	assert.Nil(t, s.Context(0))
	require.NoError(t, s.SetPosition(0, "Коммерческий директор"))

	res, err := s.Compose(Options{Organization: "ООО Ромашка", Only: []int{0}})
	require.NoError(t, err)
	assert.Equal(t, StatusResolvedWithPosition, res[0].Status)
	assert.Len(t, res[0].Greetings, 5)
	assert.Equal(t, "Кузнецов Олег Ильич — Коммерческий директор", res[0].Title)

	pos, ok := hist.Get("Кузнецов Олег Ильич")
	require.True(t, ok)
	assert.Equal(t, "Коммерческий директор", pos)

	assert.ErrorIs(t, s.UseLabel(1), ErrNoLabelName)
	assert.ErrorIs(t, s.UseLabel(5), ErrLeaderIndex)
}

func TestAssign(t *testing.T) {
	e, _ := newRussianEngine(t)
	s := e.Load(notes, labels)

	require.NoError(t, s.Assign(2, "Иванов Олег Ильич"))
	assert.Equal(t, "Иванов Олег Ильич", s.Leaders()[2].Person.DisplayName)
	require.NoError(t, s.Assign(3, "петрова"))
	assert.Equal(t, "Петрова Анна Викторовна", s.Leaders()[3].Person.DisplayName)
	assert.False(t, s.Leaders()[3].FromLabel)
	assert.ErrorIs(t, s.Assign(3, "zzz"), ErrUnknownCandidate)
}

func TestLoadCardsMatchesNameOnly(t *testing.T) {
	e, _ := newRussianEngine(t)
	// a lone letter in the backup line must not count as an initial
	s := e.LoadCards(notes,
		[]string{"Иванов", "Петрова А.В."},
		[]string{"Последний подкреп О 12.03.2024 10:15"})

	ls := s.Leaders()
	assert.Equal(t, "Иванов", ls[0].Label)
	assert.Equal(t, fio.StatusAmbiguous, ls[0].Match.Status)
	require.NotNil(t, ls[0].LastBackup)
	assert.Equal(t, 15, ls[0].LastBackup.Minute())
	assert.Empty(t, ls[1].Backup)
	assert.Nil(t, ls[1].LastBackup)
	require.NotNil(t, ls[1].Person)
}
