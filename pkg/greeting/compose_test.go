package greeting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeLatin(t *testing.T) {
	got, err := Compose("Ivanov P.S.", "Deputy CEO", "Acme LLC")
	require.NoError(t, err)
	require.Len(t, got, Variants)

	for _, g := range got {
		assert.Equal(t, 1, strings.Count(g, "Ivanov P.S."), g)
		assert.Equal(t, 1, strings.Count(g, "deputy CEO"), g)
		assert.Equal(t, 1, strings.Count(g, "Acme LLC"), g)
		assert.NotContains(t, g, ",,")
		assert.NotContains(t, g, " ,")
		assert.NotContains(t, g, "  ")
		assert.NotContains(t, g, "..")
		assert.Equal(t, strings.TrimSpace(g), g)
	}
	assert.Equal(t, "— Это deputy CEO Acme LLC, Ivanov P.S. Нужно с Вами переговорить, перезвоните", got[3])
	assert.Equal(t, "— Это Ivanov P.S., deputy CEO Acme LLC. Перезвоните мне, я по делу", got[0])
	assert.Equal(t, "— Ivanov P.S. беспокоит, deputy CEO Acme LLC. Есть тема для разговора, перезвоните", got[2])
}

func TestComposeRussian(t *testing.T) {
	got, err := Compose("Иванову Петру", "зам гендиректора", `ООО "Ромашка"`)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`— Это Иванову Петру, зам гендиректора ООО "Ромашка". Перезвоните мне, я по делу`,
		`— Беспокоит Вас Иванову Петру, зам гендиректора ООО "Ромашка". Ожидаю от Вас обратной связи`,
		`— Иванову Петру беспокоит, зам гендиректора ООО "Ромашка". Есть тема для разговора, перезвоните`,
		`— Это зам гендиректора ООО "Ромашка", Иванову Петру. Нужно с Вами переговорить, перезвоните`,
		`— Беспокоит Вас Иванову Петру, зам гендиректора ООО "Ромашка". Ожидаю от Вас обратной связи, я по делу`,
	}, got)
}

func TestComposeWithoutPosition(t *testing.T) {
	got, err := Compose("Петров И.И.", "  ", "АО Вектор")
	require.NoError(t, err)
	assert.Equal(t, "— Это Петров И.И. АО Вектор. Перезвоните мне, я по делу", got[0])
	assert.Equal(t, "— Петров И.И. беспокоит, АО Вектор. Есть тема для разговора, перезвоните", got[2])
	assert.Equal(t, "— Это АО Вектор, Петров И.И. Нужно с Вами переговорить, перезвоните", got[3])
	for _, g := range got {
		assert.NotContains(t, g, "..", g)
	}
}

func TestComposeTidiesInput(t *testing.T) {
	got, err := Compose("  Сидорова   Мария ", "Главный   бухгалтер", " ООО  Луч ")
	require.NoError(t, err)
	assert.Equal(t, "— Это Сидорова Мария, главный бухгалтер ООО Луч. Перезвоните мне, я по делу", got[0])
}

func TestComposePreconditions(t *testing.T) {
	_, err := Compose("", "CEO", "Acme")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = Compose("Ivanov", "CEO", " ")
	assert.ErrorIs(t, err, ErrEmptyOrganization)
}

func TestComposeDeterministic(t *testing.T) {
	first, err := Compose("Ivanov P.S.", "deputy CEO", "Acme LLC")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Compose("Ivanov P.S.", "deputy CEO", "Acme LLC")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTidy(t *testing.T) {
	assert.Equal(t, "a,b, c", tidy(" a ,b,  , c "))
	assert.Equal(t, "Петров И.И. Нужно", tidy("Петров И.И.. Нужно"))
	assert.Equal(t, "Петров И.И.", tidy("Петров И.И.."))
	assert.Equal(t, "ждём... ответа", tidy("ждём... ответа"))
}

func TestBlock(t *testing.T) {
	title := Title("Иванов Пётр", "Генеральный директор")
	assert.Equal(t, "Иванов Пётр — Генеральный директор", title)
	assert.Equal(t, "Иванов Пётр", Title("Иванов Пётр", ""))

	b := Block(title, []string{"one", "two"})
	assert.Equal(t, "Иванов Пётр — Генеральный директор\none\n\ntwo", b)
	assert.Equal(t, "x\none\n\ny\ntwo", JoinBlocks([]string{"x\none", "y\ntwo"}))
}
