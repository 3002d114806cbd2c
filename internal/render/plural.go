package render

// PluralizeAnswers picks the Russian form of "answer" for n.
func PluralizeAnswers(n int) string {
	if n < 0 {
		n = -n
	}
	mod10, mod100 := n%10, n%100
	switch {
	case mod10 == 1 && mod100 != 11:
		return "ответ"
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return "ответа"
	default:
		return "ответов"
	}
}
