package services

import (
	"errors"

	"backend/config"
	"backend/models"
	"backend/utils"

	"github.com/sirupsen/logrus"
)

func RegisterUser(email, password, fullName string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    email,
		Password: hashedPassword,
		FullName: fullName,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		return err
	}

	// best effort, registration already succeeded
	go func() {
		if err := utils.SendWelcomeEmail(email, fullName); err != nil {
			logrus.WithError(err).Warn("welcome email failed")
		}
	}()

	return nil
}

func AuthenticateUser(email, password string) (string, uint, error) {
	var user models.User
	result := config.DB.Where("email = ?", email).First(&user)
	if result.Error != nil {
		return "", 0, errors.New("user not found")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", 0, errors.New("incorrect password")
	}

	token, err := utils.GenerateJWT(user.Email, user.ID)
	if err != nil {
		return "", 0, err
	}

	return token, user.ID, nil
}
