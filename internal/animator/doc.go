// Package animator выполняет шаги построения DFA по таймеру.
//
// Animator не содержит логики построения: он вызывает Stepper.StepForward
// с заданным интервалом, передаёт шаги Renderer и уведомляет слушателей
// о событиях start, stop, complete, step и error.
//
// Состояния (domain.AnimationStatus):
//
//	IDLE --Play--> RUNNING --Stop/завершение/ошибка--> IDLE
package animator
