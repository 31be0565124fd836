package keywords

// Stopwords removed before scoring anchor phrases.
//
//nolint:gochecknoglobals // Static lookup table, read-only after init.
var stopwords = toSet([]string{
	"yang", "dan", "di", "ke", "dari", "pada", "dalam", "untuk", "dengan", "oleh", "sebagai", "atau",
	"ini", "itu", "para", "lebih", "cara", "ketika", "angka", "memaknai", "menjadi", "bagian",
	"awal", "tahun", "pemain", "mulai", "membantu", "menandai", "digunakan", "membuka", "akses",
})

// Extra filler words that are too generic to represent a whole batch of titles.
//
//nolint:gochecknoglobals // Static lookup table, read-only after init.
var titleFillers = toSet([]string{
	"saat", "jadi", "kembali", "tak", "lagi", "bukan", "hanya", "juga", "agar", "karena", "hingga",
	"disebut", "dinilai", "berbasis", "komunitas", "temuan", "ungkapan", "mengungkap", "alasan",
	"respons", "ritme", "sebuah", "tentang", "antara", "serta", "tanpa", "baru", "terbaru",
})

// Curated domain terms and their score boost.
//
//nolint:gochecknoglobals // Static lookup table, read-only after init.
var tokenBoost = map[string]int{
	"mahjongways": 140,
	"pgsoft":      100,
	"rtp":         95,
	"live":        35,
	"kasino":      85,
	"online":      70,
	"ai":          110,
	"prediktif":   120,
	"analitik":    110,
	"lanjutan":    90,
	"machine":     100,
	"learning":    100,
	"big":         90,
	"data":        100,
	"dashboard":   100,
	"real":        80,
	"time":        80,
	"teknologi":   70,
	"bonus":       70,
	"scatter":     80,
	"hitam":       75,
	"server":      70,
	"thailand":    75,
	"pola":        55,
	"menang":      45,
	"kemenangan":  40,
	"strategi":    35,
	"teknik":      35,
	"panduan":     40,
	"pemula":      40,
	"cuan":        45,
	"betting":     30,
	"taruhan":     30,
	"2026":        25,
}

// IsStopword reports whether token is in the anchor stopword set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// IsTitleFiller reports whether token is too generic for batch-wide keywords.
// Every stopword is also a filler.
func IsTitleFiller(token string) bool {
	if IsStopword(token) {
		return true
	}
	_, ok := titleFillers[token]
	return ok
}

// Boost returns the curated boost for token, or 0 for unknown tokens.
func Boost(token string) int {
	return tokenBoost[token]
}

// IsCurated reports whether token has an entry in the boost table.
func IsCurated(token string) bool {
	_, ok := tokenBoost[token]
	return ok
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
