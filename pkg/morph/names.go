package morph

import "strings"

type role int

const (
	surname role = iota
	given
	patronymic
)

func nameRole(i int) role {
	switch i {
	case 0:
		return surname
	case 1:
		return given
	default:
		return patronymic
	}
}

var (
	// Male given names in -а/-я.
	maleVowelNames = set("никита", "илья", "кузьма", "фома", "лука", "савва", "данила", "гаврила", "иона")
	// Female given names in -ь.
	femaleSoftNames = set("любовь", "нинель", "адель", "ассоль", "рахиль", "эсфирь")
	// Given names that lose a vowel when declined.
	fleeting = map[string]string{
		"павел": "павл",
		"лев":   "льв",
		"пётр":  "петр",
		"петр":  "петр",
	}
)

// nameGender guesses gender from the patronymic, then the given name, then
// the surname.
func nameGender(parts []string) Gender {
	if len(parts) >= 3 && !skipWord(parts[2]) {
		p := strings.ToLower(parts[2])
		switch {
		case strings.HasSuffix(p, "ич"):
			return Male
		case strings.HasSuffix(p, "на"):
			return Female
		}
	}
	if len(parts) >= 2 && !skipWord(parts[1]) {
		if g := givenGender(strings.ToLower(parts[1])); g != GenderUnknown {
			return g
		}
	}
	if len(parts) >= 1 {
		s := strings.ToLower(parts[0])
		switch {
		case hasAnySuffix(s, "ова", "ева", "ёва", "ина", "ына", "ая"):
			return Female
		case hasAnySuffix(s, "ов", "ев", "ёв", "ин", "ын", "ий", "ый", "ой"):
			return Male
		}
	}
	return GenderUnknown
}

func givenGender(g string) Gender {
	if _, ok := maleVowelNames[g]; ok {
		return Male
	}
	if _, ok := femaleSoftNames[g]; ok {
		return Female
	}
	switch l := last(g); {
	case l == 'а' || l == 'я':
		return Female
	case l == 'й' || l == 'ь' || consonant(l):
		return Male
	}
	return GenderUnknown
}

func inflectNamePart(w string, r role, g Gender, c Case) string {
	switch r {
	case surname:
		return inflectSurname(w, g, c)
	case given:
		return inflectGiven(w, g, c)
	default:
		return inflectPatronymic(w, c)
	}
}

func inflectSurname(s string, g Gender, c Case) string {
	if hasAnySuffix(s, "их", "ых") || strings.ContainsRune("оеиуюыэё", last(s)) {
		return s
	}
	if g == Female {
		switch {
		case hasAnySuffix(s, "ова", "ева", "ёва", "ина", "ына"):
			return trim(s, 1) + "ой"
		case strings.HasSuffix(s, "яя"):
			return trim(s, 2) + "ей"
		case strings.HasSuffix(s, "ая"):
			return trim(s, 2) + "ой"
		case hasAnySuffix(s, "а", "я"):
			return firstDeclension(s, c)
		}
		return s
	}
	switch {
	case hasAnySuffix(s, "ый", "ой", "ий") && len([]rune(s)) > 3:
		return adjMasc(s, c)
	case hasAnySuffix(s, "а", "я"):
		return firstDeclension(s, c)
	case hasAnySuffix(s, "й", "ь"):
		return trim(s, 1) + pick(c, "ю", "я")
	case consonant(last(s)):
		return s + pick(c, "у", "а")
	}
	return s
}

func inflectGiven(n string, g Gender, c Case) string {
	if base, ok := fleeting[n]; ok {
		return base + pick(c, "у", "а")
	}
	if g == Female || givenGender(n) == Female {
		switch {
		case strings.HasSuffix(n, "ь"):
			return trim(n, 1) + "и"
		case hasAnySuffix(n, "а", "я"):
			return firstDeclension(n, c)
		}
		return n
	}
	switch {
	case hasAnySuffix(n, "а", "я"):
		return firstDeclension(n, c)
	case hasAnySuffix(n, "й", "ь"):
		return trim(n, 1) + pick(c, "ю", "я")
	case consonant(last(n)):
		return n + pick(c, "у", "а")
	}
	return n
}

func inflectPatronymic(p string, c Case) string {
	switch {
	case strings.HasSuffix(p, "ич"):
		return p + pick(c, "у", "а")
	case strings.HasSuffix(p, "на"):
		return trim(p, 1) + pick(c, "е", "ы")
	}
	return p
}
