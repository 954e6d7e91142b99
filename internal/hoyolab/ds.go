package hoyolab

import (
	"crypto/md5"
	"fmt"
	"math/rand"
	"time"
)

// Overseas web salt used by the HoYoLAB community app. The game-record
// endpoints reject requests whose DS header does not hash against it.
const dsSalt = "6s25p5ox5y14umn1p61aqyyvbvvl3lrt"

const dsLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateDS builds the DS dynamic-secret header value "t,r,h": t is
// unix seconds, r a 6-letter nonce, h = md5("salt=S&t=T&r=R").
func generateDS() string {
	t := time.Now().Unix()
	r := randomLetters(6)
	h := md5.Sum([]byte(fmt.Sprintf("salt=%s&t=%d&r=%s", dsSalt, t, r)))
	return fmt.Sprintf("%d,%s,%x", t, r, h)
}

func randomLetters(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = dsLetters[rand.Intn(len(dsLetters))]
	}
	return string(b)
}
