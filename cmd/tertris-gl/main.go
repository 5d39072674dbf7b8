package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	game := NewApp()
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("tertris")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
