package handler

import (
	"campusrent/internal/usecase"
)

var (
	authHandler   *AuthHandler
	userHandler   *UserHandler
	rentalHandler *RentalHandler
	adminHandler  *AdminHandler
	chatHandler   *ChatHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	verificationUseCase *usecase.VerificationUseCase,
	rentalUseCase *usecase.RentalUseCase,
	trustUseCase *usecase.TrustUseCase,
	chatUseCase *usecase.ChatUseCase,
	itemPhotoStore ItemPhotoStore,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(verificationUseCase, authUseCase)
	rentalHandler = NewRentalHandler(rentalUseCase, trustUseCase, itemPhotoStore)
	adminHandler = NewAdminHandler(trustUseCase)
	chatHandler = NewChatHandler(chatUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetRentalHandler() *RentalHandler {
	return rentalHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}
