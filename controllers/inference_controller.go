package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rottenbot/inference-service/inference"
	"github.com/rottenbot/inference-service/middleware"
	"github.com/rottenbot/inference-service/recorder"
	"github.com/rottenbot/inference-service/utils"
)

// Recorder is the background persistence the controller schedules work on.
type Recorder interface {
	Enqueue(job recorder.Job)
}

// InferenceController serves the prediction endpoint. The predictor and
// recorder are constructed once at startup and injected here; the controller
// itself holds no mutable state.
type InferenceController struct {
	predictor inference.Predictor
	recorder  Recorder
}

// NewInferenceController creates a new InferenceController instance.
func NewInferenceController(predictor inference.Predictor, rec Recorder) *InferenceController {
	return &InferenceController{predictor: predictor, recorder: rec}
}

// PredictionResponse is the 200 body of the predict endpoint.
type PredictionResponse struct {
	PredictedClass     int     `json:"predicted_class"`
	PredictedClassName string  `json:"predicted_class_name"`
	Confidence         float64 `json:"confidence"`
}

// Predict handles POST /api/v1/inference/predict. The caller is already
// authenticated by the middleware; the flow here is validate, read, infer,
// respond, and only then schedule background recording.
func (ic *InferenceController) Predict(ctx *gin.Context) {
	userUID := ctx.GetString(middleware.ContextUserUIDKey)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		utils.Detail(ctx, http.StatusBadRequest, "Missing file upload")
		return
	}

	savePrediction, _ := strconv.ParseBool(ctx.PostForm("save_prediction"))

	contentType := fileHeader.Header.Get("Content-Type")
	if !inference.SupportedContentType(contentType) {
		utils.Detail(ctx, http.StatusBadRequest,
			fmt.Sprintf("Invalid file type. Only JPEG, JPG, and PNG are supported. Got %s", contentType))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.Sugar.Errorf("open upload failed for user %s: %v", userUID, err)
		utils.Detail(ctx, http.StatusInternalServerError, utils.MsgPredictionFailed)
		return
	}
	defer file.Close()

	// The full byte stream is needed twice: once for preprocessing and once
	// for the background archive.
	contents, err := io.ReadAll(file)
	if err != nil {
		utils.Sugar.Errorf("read upload failed for user %s: %v", userUID, err)
		utils.Detail(ctx, http.StatusInternalServerError, utils.MsgPredictionFailed)
		return
	}

	result, err := ic.predictor.Predict(contents, contentType)
	if err != nil {
		if errors.Is(err, inference.ErrUnsupportedContentType) {
			utils.Detail(ctx, http.StatusBadRequest,
				fmt.Sprintf("Invalid file type. Only JPEG, JPG, and PNG are supported. Got %s", contentType))
			return
		}
		// Decode and model failures are server-side defects from the
		// caller's point of view; the detail stays in the log.
		utils.Sugar.Errorf("prediction failed for user %s: %v", userUID, err)
		utils.Detail(ctx, http.StatusInternalServerError, utils.MsgPredictionFailed)
		return
	}

	ctx.JSON(http.StatusOK, PredictionResponse{
		PredictedClass:     result.Class,
		PredictedClassName: result.ClassName,
		Confidence:         result.Confidence,
	})

	// Scheduled after the response is written; a recording failure can never
	// change the status the caller already received.
	if savePrediction {
		ic.recorder.Enqueue(recorder.Job{
			Contents:    contents,
			ContentType: contentType,
			UserUID:     userUID,
			Result:      result,
		})
	}
}
