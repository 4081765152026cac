package timephrase

var ones = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight",
	"nine", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen",
}

var tens = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
	"eighty", "ninety",
}

// toWords spells out a non-negative integer below ten thousand, which
// covers minutes, hours and calendar years.
func toWords(n int) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		word := tens[n/10]
		if rem := n % 10; rem != 0 {
			word += "-" + ones[rem]
		}
		return word
	case n < 1000:
		word := ones[n/100] + " hundred"
		if rem := n % 100; rem != 0 {
			word += " " + toWords(rem)
		}
		return word
	default:
		word := toWords(n/1000) + " thousand"
		if rem := n % 1000; rem != 0 {
			word += " " + toWords(rem)
		}
		return word
	}
}
