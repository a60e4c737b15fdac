// Package prompts holds the fixed user-visible texts and the templates
// that wrap attached documents before they are sent to the model.
package prompts

import "fmt"

// HorizontalLine separates documents inside a bundle.
const HorizontalLine = "\n\n--------------------------------------------------------------------------------\n\n"

// Fixed notices sent to the transport.
const (
	DocumentProcessingStatus = "📄 Importing your documents..."
	DocumentSuccess          = "I have imported the documents. Working on your request."
	ContextTrimmed           = "⚠️ Our chat has grown too long. I am removing messages from the beginning of the conversation."
	StreamInterrupted        = "⚠️ The response was interrupted before it was complete."
)

// Instructions are repeated after the documents because smaller models
// tend to lose instructions that only precede a long context.
const documentProcessingTemplate = `You will receive one or more documents from the user to work on. Do the following with the documents: %[1]s

Here are the documents:
%[2]s
%[3]s

Now carry out the instructions:
%[1]s`

const documentItemTemplate = `%[1]s
File name: %[2]s

File content:
%[3]s

%[1]s`

const documentErrorTemplate = `

## Document: %[1]s
The document could not be processed.
[Error while processing: %[2]s]
`

const documentLimitWarningTemplate = "⚠️ The documents contain too much text. I am leaving out %s."

const modelErrorTemplate = "⚠️ The model could not answer: %s"

// DocumentProcessing merges the user's instructions with the document bundle.
func DocumentProcessing(instructions, documents string) string {
	return fmt.Sprintf(documentProcessingTemplate, instructions, documents, HorizontalLine)
}

// DocumentItem wraps the extracted text of one document.
func DocumentItem(filename, content string) string {
	return fmt.Sprintf(documentItemTemplate, HorizontalLine, filename, content)
}

// DocumentError is placed in the bundle instead of a document that failed.
func DocumentError(filename string, err error) string {
	return fmt.Sprintf(documentErrorTemplate, filename, errorText(err))
}

// DocumentLimitWarning names a document omitted because the budget was reached.
func DocumentLimitWarning(elementName string) string {
	return fmt.Sprintf(documentLimitWarningTemplate, elementName)
}

// ModelError is the single notice sent when the model backend fails.
func ModelError(err error) string {
	return fmt.Sprintf(modelErrorTemplate, errorText(err))
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
