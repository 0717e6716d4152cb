package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Offxc/Void-BOTM-Bot/app"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

func main() {
	// 로컬 개발용 .env 로드. 배포 환경에는 파일이 없는 게 정상입니다.
	if err := godotenv.Load(); err != nil {
		utils.Debug("No .env file found, using process environment")
	}

	application, err := app.New()
	if err != nil {
		log.Fatal(err)
	}

	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
