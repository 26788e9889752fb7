package recognition

import "fmt"

const systemPrompt = "You are an OCR engine. You transcribe every line of text in an image exactly as printed and report where each line is. You never summarize or interpret."

// recognitionPromptTemplate asks the model for OCR lines with bounding frames
const recognitionPromptTemplate = `Transcribe this receipt image. The image is %d pixels wide and %d pixels tall.

Report every separate piece of printed text as its own line. Text that is printed in different columns of the same physical line (for example an item name on the left and its price on the right) must be reported as separate lines, each with its own frame.

For each line give its bounding box in image pixels: x and y of the top-left corner, width and height. The origin is the top-left corner of the image and y grows downwards.

Return ONLY valid JSON in this exact format:
{
  "text": "all text top to bottom, one line per row",
  "blocks": [
    {
      "lines": [
        {"text": "SuperMart", "frame": {"x": 120, "y": 40, "width": 260, "height": 32}}
      ]
    }
  ]
}

Important:
- Copy text exactly, including amounts, currency symbols and punctuation
- Do not correct spelling or reformat numbers or dates
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

func recognitionPrompt(img *preparedImage) string {
	return fmt.Sprintf(recognitionPromptTemplate, img.width, img.height)
}
