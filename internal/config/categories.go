package config

// CategoryWeights orders command categories in help output; unknown categories sort last.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"📢 Utilities":    10,
	"🎞️ Media":       40,
	"🛠️ Maintenance": 60,
}
