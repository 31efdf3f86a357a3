package bot

import "math/rand"

// Morning-routine videos, hand picked. Rotated at random by the scheduled
// good-morning broadcast and by /buongiornoirina.
var morningRoutineVideos = []string{
	"https://www.youtube.com/watch?v=rRQP8PNEouo",
	"https://www.youtube.com/watch?v=zuJ6rWQ_2vE",
	"https://www.youtube.com/watch?v=-eOJWZCYJV0",
	"https://www.youtube.com/watch?v=ZEHVgvLAv6Q",
	"https://www.youtube.com/watch?v=tMZmKRk54bQ",
	"https://www.youtube.com/watch?v=5IDjxQKCUGY",
	"https://www.youtube.com/watch?v=iB5aW-csDiU",
	"https://www.youtube.com/watch?v=_uN7hvoZdmE",
	"https://www.youtube.com/watch?v=55RyTo4U818",
}

func randomMorningVideo() string {
	return morningRoutineVideos[rand.Intn(len(morningRoutineVideos))]
}
