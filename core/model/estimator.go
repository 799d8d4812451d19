// Package model defines the estimator contracts shared by every regression
// model in the toolkit.
package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit は X (n×p) と列ベクトル y (n×1) でモデルを学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は n×1 の予測値を返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Regressor is what the factory hands out and the training pipeline drives.
type Regressor interface {
	Fitter
	Predictor
	IsFitted() bool
}

// FeatureImportancer is implemented by estimators that can rank their input
// columns. Importances are non-negative and sum to 1 unless every split
// gained nothing, in which case all are zero.
type FeatureImportancer interface {
	FeatureImportances() ([]float64, error)
}

// Scorer returns the coefficient of determination of the prediction.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// LinearModel は線形モデルのインターフェース
type LinearModel interface {
	// Coefficients は学習された重み（係数）を返す
	Coefficients() []float64
	// InterceptValue は学習された切片を返す
	InterceptValue() float64
}
